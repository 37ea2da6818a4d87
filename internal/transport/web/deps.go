package web

import (
	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
	"github.com/Med359-a/NDMedSphere/internal/domain"
)

// Deps — всё, что нужно web-слою от инфраструктуры.
type Deps struct {
	Repo    domain.ContentRepo
	Storage domain.BlobStorage
	Cache   domain.Cache

	// Gate — активная стратегия; TokenGate не nil только в режиме token
	// (для middleware обмена токена на cookie).
	Gate      adm.Gate
	TokenGate *adm.TokenGate
}
