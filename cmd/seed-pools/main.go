package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"bpi.backend/internal/config"
	"bpi.backend/internal/domain/entities"
	domainrepo "bpi.backend/internal/domain/repositories"
	"bpi.backend/internal/infrastructure/datasources/postgres"
	"bpi.backend/internal/infrastructure/repositories"
)

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (domainrepo.PoolRepository, domainrepo.UnitOfWork, io.Closer, error)
	out     io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (domainrepo.PoolRepository, domainrepo.UnitOfWork, io.Closer, error) {
			db, err := postgres.NewConnection(cfg.Database)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return repositories.NewPoolRepository(db), repositories.NewUnitOfWork(db), sqlDB, nil
		},
		out: os.Stdout,
	}
}

// executiveFlags collects repeated --executive ROLE=PERCENT[:userId] values
type executiveFlags []string

func (f *executiveFlags) String() string { return strings.Join(*f, ",") }

func (f *executiveFlags) Set(v string) error {
	*f = append(*f, v)
	return nil
}

func parseExecutive(raw string) (*entities.ExecutiveShareholder, error) {
	role, rest, ok := strings.Cut(raw, "=")
	role = strings.TrimSpace(role)
	if !ok || role == "" || rest == "" {
		return nil, fmt.Errorf("invalid --executive %q, want ROLE=PERCENT[:userId]", raw)
	}

	pctRaw, userRaw, hasUser := strings.Cut(rest, ":")
	pct, err := decimal.NewFromString(pctRaw)
	if err != nil || !pct.IsPositive() {
		return nil, fmt.Errorf("invalid percentage %q for %s", pctRaw, role)
	}

	exec := &entities.ExecutiveShareholder{
		Role:       strings.ToUpper(role),
		Percentage: pct,
		IsActive:   true,
	}
	if hasUser {
		userID, err := uuid.Parse(userRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid user id %q for %s: %w", userRaw, role, err)
		}
		exec.UserID = &userID
	}
	return exec, nil
}

func parseExecutives(raw []string) ([]*entities.ExecutiveShareholder, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]*entities.ExecutiveShareholder, 0, len(raw))
	seen := map[string]bool{}
	total := decimal.Zero
	for _, r := range raw {
		exec, err := parseExecutive(r)
		if err != nil {
			return nil, err
		}
		if seen[exec.Role] {
			return nil, fmt.Errorf("duplicate executive role %s", exec.Role)
		}
		seen[exec.Role] = true
		total = total.Add(exec.Percentage)
		out = append(out, exec)
	}
	if !total.Equal(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("executive percentages must sum to 100, got %s", total.String())
	}
	return out, nil
}

func runSeed(args []string, deps seedDeps) error {
	def := defaultSeedDeps()
	if deps.loadEnv == nil {
		deps.loadEnv = def.loadEnv
	}
	if deps.loadCfg == nil {
		deps.loadCfg = def.loadCfg
	}
	if deps.prepare == nil {
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	var execFlags executiveFlags
	fs := flag.NewFlagSet("seed-pools", flag.ContinueOnError)
	fs.Var(&execFlags, "executive", "executive shareholder ROLE=PERCENT[:userId], repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	executives, err := parseExecutives(execFlags)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	pools, uow, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	err = uow.Do(ctx, func(txCtx context.Context) error {
		// adding zero creates missing rows and leaves existing balances untouched
		if err := pools.IncrementCompanyReserve(txCtx, decimal.Zero); err != nil {
			return fmt.Errorf("seed company reserve: %w", err)
		}
		for _, p := range entities.StrategyPoolTypes {
			if err := pools.IncrementStrategyPool(txCtx, p, decimal.Zero); err != nil {
				return fmt.Errorf("seed strategy pool %s: %w", p, err)
			}
		}
		for _, e := range executives {
			if err := pools.UpsertExecutive(txCtx, e); err != nil {
				return fmt.Errorf("seed executive %s: %w", e.Role, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(deps.out, "Seeded company reserve and strategy pools")
	for _, p := range entities.StrategyPoolTypes {
		_, _ = fmt.Fprintf(deps.out, "pool=%s\n", p)
	}
	for _, e := range executives {
		_, _ = fmt.Fprintf(deps.out, "executive=%s percentage=%s\n", e.Role, e.Percentage.String())
	}
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
