package validators

import (
	"net"
	"strings"
)

// EmailDomain extrai o domínio após o último "@"; vazio quando malformado.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return email[at+1:]
}

// IsEmailDomainValid confere se o domínio do e-mail resolve (MX ou A/AAAA).
func IsEmailDomainValid(email string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
