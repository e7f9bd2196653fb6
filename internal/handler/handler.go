package handlers

import (
	"HibiscusAlert/internal/followgraph"
	"HibiscusAlert/internal/identity"
	"HibiscusAlert/pkg/cache"
	stores "HibiscusAlert/pkg/storage"

	"gorm.io/gorm"
)

// Handlers 路由处理器集合
type Handlers struct {
	db       *gorm.DB
	identity *identity.Service
	graph    *followgraph.Service
	cache    cache.Cache
	photos   stores.Store
}

func New(db *gorm.DB, ident *identity.Service, graph *followgraph.Service, c cache.Cache, photos stores.Store) *Handlers {
	return &Handlers{
		db:       db,
		identity: ident,
		graph:    graph,
		cache:    c,
		photos:   photos,
	}
}
