package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bpi.backend/internal/domain/entities"
	domainerrors "bpi.backend/internal/domain/errors"
	"bpi.backend/internal/interfaces/http/middleware"
	"bpi.backend/internal/interfaces/http/response"
	"bpi.backend/internal/usecases"
)

type membershipService interface {
	ListPackages(ctx context.Context) ([]*entities.MembershipPackage, error)
	Purchase(ctx context.Context, userID, packageID uuid.UUID) (*entities.MembershipResult, error)
	Renew(ctx context.Context, userID, packageID uuid.UUID) (*entities.MembershipResult, error)
	Empower(ctx context.Context, sponsorID uuid.UUID, beneficiaryEmail string, packageID uuid.UUID) (*entities.MembershipResult, error)
}

// MembershipHandler handles membership purchase endpoints
type MembershipHandler struct {
	membershipUsecase membershipService
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(membershipUsecase *usecases.MembershipUsecase) *MembershipHandler {
	return &MembershipHandler{membershipUsecase: membershipUsecase}
}

// ListPackages lists the active membership packages
// GET /api/v1/membership/packages
func (h *MembershipHandler) ListPackages(c *gin.Context) {
	packages, err := h.membershipUsecase.ListPackages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if packages == nil {
		packages = []*entities.MembershipPackage{}
	}
	response.Success(c, http.StatusOK, gin.H{"packages": packages})
}

// Purchase activates a membership paid from the main wallet
// POST /api/v1/membership/purchase
func (h *MembershipHandler) Purchase(c *gin.Context) {
	h.pay(c, h.membershipUsecase.Purchase)
}

// Renew extends the caller's membership
// POST /api/v1/membership/renew
func (h *MembershipHandler) Renew(c *gin.Context) {
	h.pay(c, h.membershipUsecase.Renew)
}

func (h *MembershipHandler) pay(c *gin.Context, fn func(ctx context.Context, userID, packageID uuid.UUID) (*entities.MembershipResult, error)) {
	var input entities.PurchaseMembershipInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := fn(c.Request.Context(), userID, input.PackageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Empower buys a package for another user
// POST /api/v1/membership/empower
func (h *MembershipHandler) Empower(c *gin.Context) {
	var input entities.EmpowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("User not authenticated"))
		return
	}

	result, err := h.membershipUsecase.Empower(c.Request.Context(), userID, input.BeneficiaryEmail, input.PackageID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
