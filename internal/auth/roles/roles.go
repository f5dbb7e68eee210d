package roles

import "github.com/EgorLis/my-auth/internal/domain"

// Checker — проверка членства роли. Без иерархий и wildcard:
// роль либо входит в разрешённый набор, либо нет.
type Checker struct {
	allowed map[string]struct{}
}

func NewChecker(allowed ...string) *Checker {
	m := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		m[r] = struct{}{}
	}
	return &Checker{allowed: m}
}

func (c *Checker) Check(u domain.User) error {
	if _, ok := c.allowed[u.Role]; !ok {
		return domain.ErrForbidden
	}
	return nil
}
