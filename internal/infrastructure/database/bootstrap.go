package database

import (
	"context"
	"fmt"
	"log"

	"github.com/sangkips/oscr-register/internal/application/service"
	"github.com/sangkips/oscr-register/internal/config"
	"github.com/sangkips/oscr-register/internal/domain/enum"
)

// Bootstrap makes sure a fresh store can open bills: both global tax
// infos exist and at least one operator can sign in.
func Bootstrap(ctx context.Context, cfg *config.RegisterConfig, taxes *service.TaxService, users *service.UserService) error {
	log.Println("[bootstrap] checking tax infos and operators...")

	classes := []struct {
		usage enum.TaxUsage
		input service.VATClassInput
	}{
		{enum.TaxUsageGlobalStandardVAT, service.VATClassInput{
			Name:         cfg.StandardVATName,
			Rate:         cfg.StandardVATRate,
			Abbreviation: []rune(cfg.StandardVATAbbr)[0],
		}},
		{enum.TaxUsageGlobalReducedVAT, service.VATClassInput{
			Name:         cfg.ReducedVATName,
			Rate:         cfg.ReducedVATRate,
			Abbreviation: []rune(cfg.ReducedVATAbbr)[0],
		}},
	}
	for _, c := range classes {
		if _, err := taxes.EnsureTaxInfo(ctx, c.usage, c.input); err != nil {
			return fmt.Errorf("bootstrap %s: %w", c.usage, err)
		}
	}

	operators, err := users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap operators: %w", err)
	}
	if len(operators) > 0 {
		log.Printf("[bootstrap] %d operators active", len(operators))
		return nil
	}

	admin, err := users.CreateOperator(ctx, &service.CreateOperatorInput{
		Name: cfg.AdminName,
		PIN:  cfg.AdminPIN,
		Role: enum.UserRoleManager,
	})
	if err != nil {
		return fmt.Errorf("bootstrap operator %s: %w", cfg.AdminName, err)
	}
	log.Printf("[bootstrap] operator created: %s", admin.Name)
	return nil
}
