package redisx

import "time"

const (
	// Idempotent order placement: idem:order:place:{key} -> order_id
	KeyIdemOrderPlace = "idem:order:place:%s"

	// Read-through product cache: product:{product_id}
	KeyProduct = "product:%s"

	// List-response caches, invalidated on catalog mutation.
	KeyProductList    = "products:all"
	KeySellerProducts = "products:seller:%s"
)

var (
	TTLIdempotency  = 24 * time.Hour
	TTLProductCache = time.Minute
	TTLListCache    = 10 * time.Second
)
