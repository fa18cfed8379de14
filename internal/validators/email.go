package validators

import (
	"context"
	"errors"
	"net"
	"net/mail"
	"strings"
)

var (
	ErrEmailFormat = errors.New("invalid email format")
	ErrEmailDomain = errors.New("email domain does not accept mail")
)

// DomainResolver diz se o domínio recebe e-mail.
type DomainResolver func(ctx context.Context, domain string) bool

// ResolveDomain aceita domínio com MX ou, na falta, com algum endereço.
func ResolveDomain(ctx context.Context, domain string) bool {
	r := net.DefaultResolver

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	addrs, err := r.LookupIPAddr(ctx, domain)
	return err == nil && len(addrs) > 0
}

// ValidateEmail devolve o e-mail normalizado (minúsculo, sem espaços).
// Só o endereço puro é aceito, sem nome de exibição. resolve nil pula a
// checagem de domínio.
func ValidateEmail(ctx context.Context, raw string, resolve DomainResolver) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrEmailFormat
	}

	if resolve == nil {
		return email, nil
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if !resolve(ctx, domain) {
		return "", ErrEmailDomain
	}

	return email, nil
}
