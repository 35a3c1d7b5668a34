package helper

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	Validate = newValidator()

	strictJSON = sonic.Config{
		DisallowUnknownFields: true,
		UseNumber:             true,
	}.Froze()
)

func newValidator() *validator.Validate {
	v := validator.New()
	// pakai nama field JSON di pesan error
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// DecodeStrict menolak body kosong, JSON rusak, dan field yang tidak dikenal.
func DecodeStrict(body []byte, dst any) error {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ErrValidation("El cuerpo de la petición es obligatorio")
	}
	if err := strictJSON.Unmarshal(body, dst); err != nil {
		return &AppError{Kind: KindValidation, Message: "Cuerpo de la petición inválido", Err: err}
	}
	return nil
}

// ValidateStruct menjalankan validator/v10 dan mengubah hasilnya jadi AppError dengan detail field.
func ValidateStruct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &AppError{Kind: KindValidation, Message: "Datos inválidos", Err: err}
	}
	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = append(fields[fe.Field()], fe.Tag())
	}
	return &AppError{Kind: KindValidation, Message: "Datos inválidos", Fields: fields}
}

// ParseBody = DecodeStrict + ValidateStruct.
func ParseBody(c *fiber.Ctx, dst any) error {
	if err := DecodeStrict(c.Body(), dst); err != nil {
		return err
	}
	return ValidateStruct(dst)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsInstitutionalEmail: domain dibandingkan case-insensitive, tanpa subdomain.
func IsInstitutionalEmail(email, domain string) bool {
	email = NormalizeEmail(email)
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return email[at+1:] == domain
}

// ValidatePassword: minimal 8 karakter, ada huruf dan angka.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return ErrValidation("La contraseña debe tener al menos 8 caracteres")
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrValidation("La contraseña debe contener letras y números")
	}
	return nil
}
