// Package validation checks transaction input before it reaches the ledger.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mmynk/tripsplit/internal/models"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid transaction")

// MaxAmount is the largest accepted payer amount, custom amount or total.
const MaxAmount = 1e12

var validate = newValidator()

// transactionInput mirrors models.Transaction with the struct-level rules.
type transactionInput struct {
	Title        string       `validate:"required"`
	Payers       []payerInput `validate:"required,min=1,dive"`
	Participants []string     `validate:"required,min=1,dive,required"`
	SplitType    string       `validate:"required,oneof=equal custom"`
}

type payerInput struct {
	Name   string  `validate:"required"`
	Amount float64 `validate:"finite,gte=0,lte=1000000000000"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	if err != nil {
		panic(err)
	}
	return v
}

// fieldMessages renders validator failures as short client-facing messages.
var fieldMessages = map[string]string{
	"Title":        "title is required",
	"Payers":       "at least one payer is required",
	"Participants": "at least one participant is required",
	"SplitType":    "split type must be equal or custom",
	"Name":         "payer name is required",
	"Amount":       "payer amount must be a non-negative number no larger than 1e12",
}

// Transaction trims txn in place, checks it and re-derives TotalAmount.
// Custom amounts are dropped for equal splits. Failures wrap ErrInvalid.
func Transaction(txn *models.Transaction) error {
	normalize(txn)

	in := transactionInput{
		Title:        txn.Title,
		Participants: txn.Participants,
		SplitType:    string(txn.SplitType),
	}
	for _, p := range txn.Payers {
		in.Payers = append(in.Payers, payerInput(p))
	}

	if err := validate.Struct(in); err != nil {
		return describe(err)
	}

	if err := checkParticipants(txn.Participants); err != nil {
		return err
	}
	if err := checkCustomAmounts(txn); err != nil {
		return err
	}

	if total := txn.TotalPaid(); !inRange(total) {
		return fmt.Errorf("%w: total amount must be a non-negative number no larger than 1e12", ErrInvalid)
	}
	txn.Recalculate()
	return nil
}

func inRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= MaxAmount
}

func normalize(txn *models.Transaction) {
	txn.Title = strings.TrimSpace(txn.Title)
	for i := range txn.Payers {
		txn.Payers[i].Name = strings.TrimSpace(txn.Payers[i].Name)
	}
	for i := range txn.Participants {
		txn.Participants[i] = strings.TrimSpace(txn.Participants[i])
	}
	txn.SplitType = models.SplitType(strings.ToLower(strings.TrimSpace(string(txn.SplitType))))
	if txn.SplitType != models.SplitCustom {
		txn.CustomAmounts = nil
	}
}

func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	fe := verrs[0]
	field, _, element := strings.Cut(fe.StructField(), "[")
	if field == "Participants" && element {
		return fmt.Errorf("%w: participant names must not be blank", ErrInvalid)
	}
	if msg, ok := fieldMessages[field]; ok {
		return fmt.Errorf("%w: %s", ErrInvalid, msg)
	}
	return fmt.Errorf("%w: %s failed %s", ErrInvalid, fe.Field(), fe.Tag())
}

// checkParticipants rejects a name listed twice, compared with models.NameKey.
func checkParticipants(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		key := models.NameKey(n)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: participant %q listed twice", ErrInvalid, n)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func checkCustomAmounts(txn *models.Transaction) error {
	if txn.SplitType != models.SplitCustom {
		return nil
	}
	if len(txn.CustomAmounts) != len(txn.Participants) {
		return fmt.Errorf("%w: custom amounts must align with participants", ErrInvalid)
	}
	for _, a := range txn.CustomAmounts {
		if !inRange(a) {
			return fmt.Errorf("%w: custom amounts must be non-negative numbers no larger than 1e12", ErrInvalid)
		}
	}
	return nil
}

// Patch lists the fields of a transaction update. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Payers        *[]models.Payer
	Participants  *[]string
	SplitType     *models.SplitType
	CustomAmounts *[]float64
}

// ApplyPatch returns existing with every present field of p applied and the
// result re-validated. When the patched split is custom and p carries no
// custom amounts, the existing ones are kept and must still align.
// existing is not modified.
func ApplyPatch(existing models.Transaction, p Patch) (models.Transaction, error) {
	out := existing
	out.Payers = append([]models.Payer(nil), existing.Payers...)
	out.Participants = append([]string(nil), existing.Participants...)
	out.CustomAmounts = append([]float64(nil), existing.CustomAmounts...)

	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Payers != nil {
		out.Payers = append([]models.Payer(nil), (*p.Payers)...)
	}
	if p.Participants != nil {
		out.Participants = append([]string(nil), (*p.Participants)...)
	}
	if p.SplitType != nil {
		out.SplitType = *p.SplitType
	}
	if p.CustomAmounts != nil {
		out.CustomAmounts = append([]float64(nil), (*p.CustomAmounts)...)
	}

	if err := Transaction(&out); err != nil {
		return existing, err
	}
	return out, nil
}
