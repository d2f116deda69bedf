package people

import (
	"strings"
)

type PersonRequest struct {
	PeopleID   any     `json:"people_id"`
	Name       string  `json:"name" validate:"required,min=2,max=255"`
	Role       *string `json:"role" validate:"omitempty,max=100"`
	Company    *string `json:"company" validate:"omitempty,max=255"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	Image      *string `json:"image" validate:"omitempty,max=500"`
}

func (r *PersonRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Role = trimOptional(r.Role)
	r.Company = trimOptional(r.Company)
	r.Department = trimOptional(r.Department)
	r.Image = trimOptional(r.Image)
}

type OnboardRequest struct {
	Code string `json:"code" validate:"required,alphanum,min=4,max=100"`
	PersonRequest
}

func (r *OnboardRequest) normalize() {
	r.Code = strings.TrimSpace(r.Code)
	r.PersonRequest.normalize()
}

// trimOptional: boş ya da sadece boşluk olan alan NULL olur.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// normalizeCode: QR/RFID kodları büyük harfle saklanır.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// QRURL is the public badge link printed into the QR code.
func QRURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/qr/" + normalizeCode(code)
}
