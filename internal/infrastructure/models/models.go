package models

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&BankAccount{},
		&MembershipPackage{},
		&Transaction{},
		&RevenueTransaction{},
		&RevenueAllocation{},
		&CompanyReserve{},
		&StrategyPool{},
		&ExecutiveShareholder{},
		&AuditLog{},
		&Notification{},
		&AdminSetting{},
	}
}
