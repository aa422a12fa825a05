package order

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// UpdateOrderParams carries the optional field updates for one order. Email,
// ID and ModifiedBy are required; every other field is applied only when
// non-empty.
type UpdateOrderParams struct {
	Email         string
	ID            string
	ModifiedBy    string
	PatientName   string
	AccountNumber string
	PharmacyName  string
	ScriptNumber  string
	Status        string
	Comment       string
	OrderDate     string
}

// UpdateOrder applies a set of field updates as the sequence of single-field
// writes the portal expects, bracketed by closing and reopening the order
// record. The status write is sent twice; the portal intermittently drops
// the first one. Stops at the first failed write.
func (s *Service) UpdateOrder(ctx context.Context, p UpdateOrderParams) error {
	if p.Email == "" || p.ID == "" || p.ModifiedBy == "" {
		return fmt.Errorf("update order: email, id and modifiedBy are required")
	}

	write := func(key, value string) error {
		err := s.repo.Update(ctx, UpdateRequest{
			Email:       p.Email,
			ID:          p.ID,
			ModifiedBy:  p.ModifiedBy,
			UpdateKey:   key,
			UpdateValue: value,
		})
		if err != nil {
			s.log.Error("order field update failed",
				zap.String("id", p.ID),
				zap.String("key", key),
				zap.Error(err))
			return fmt.Errorf("update %s: %w", key, err)
		}
		return nil
	}

	if err := write("order_open", "close"); err != nil {
		return err
	}
	if err := write("order_open", "open"); err != nil {
		return err
	}

	if p.PatientName != "" {
		if err := write("patient_name", p.PatientName); err != nil {
			return err
		}
		if p.AccountNumber != "" && p.PharmacyName != "" {
			searchID := strings.ToLower(p.AccountNumber) + "-" +
				strings.ToLower(p.PharmacyName) + "-" +
				strings.ToLower(p.PatientName)
			if err := write("order_search_id", searchID); err != nil {
				return err
			}
		}
		if p.ScriptNumber != "" {
			if err := write("awards_script_number", p.ScriptNumber); err != nil {
				return err
			}
		}
	}

	if p.Comment != "" {
		if err := write("staff_comment", p.Comment); err != nil {
			return err
		}
	}

	if p.OrderDate != "" {
		if err := write("order_delivery_date", p.OrderDate); err != nil {
			return err
		}
	}

	if p.Status != "" {
		if err := write("record_status", p.Status); err != nil {
			return err
		}
		if err := write("record_status", p.Status); err != nil {
			return err
		}
	}

	return write("order_open", "close")
}
