package booking_flow

import (
	"fmt"
	"unicode"

	"github.com/m04kA/IH-CoordinationService/internal/domain"
)

// validateSubmit валидирует детали резервации перед отправкой
func validateSubmit(kind domain.ResourceKind, req *SubmitRequest) error {
	if req.UserName == "" {
		return fmt.Errorf("%w: userName is required", ErrInvalidInput)
	}
	if len(req.UserName) > domain.MaxNameLength {
		return fmt.Errorf("%w: userName exceeds %d characters", ErrInvalidInput, domain.MaxNameLength)
	}

	if err := validateMobile(req.UserMobile); err != nil {
		return err
	}

	if len(req.Content) > domain.MaxContentLength {
		return fmt.Errorf("%w: content exceeds %d characters", ErrInvalidInput, domain.MaxContentLength)
	}

	// Заказ по рецепту без фото рецепта не имеет смысла
	if kind == domain.KindPrescription && len(req.PrescriptionImage) == 0 {
		return fmt.Errorf("%w: prescription image is required", ErrInvalidInput)
	}

	return nil
}

// validateMobile проверяет номер мобильного телефона:
// только цифры с опциональным ведущим "+", длина в допустимых пределах
func validateMobile(mobile string) error {
	if mobile == "" {
		return fmt.Errorf("%w: userMobile is required", ErrInvalidInput)
	}

	digits := 0
	for i, r := range mobile {
		if r == '+' && i == 0 {
			continue
		}
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: userMobile contains invalid characters", ErrInvalidInput)
		}
		digits++
	}

	if digits < domain.MinMobileLength || digits > domain.MaxMobileLength {
		return fmt.Errorf("%w: userMobile must have %d-%d digits",
			ErrInvalidInput, domain.MinMobileLength, domain.MaxMobileLength)
	}

	return nil
}
