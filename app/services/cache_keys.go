package services

import (
	"fmt"

	"github.com/shashiranjanraj/medicore/pkg/cache"
)

// Cache keys are owned by exactly one invalidation hook per entity: every
// write path calls the entity's hook, and the hook forgets every derived
// key for that entity. Adding a cached read means adding its key here,
// nowhere else.

// OffersCacheKey backs the cached offer listing read by the offer
// controller; it lives here so the invalidation hook owns it.
const OffersCacheKey = "offers:all"

// DepartmentCacheKey backs the cached single-department read.
func DepartmentCacheKey(id uint) string {
	return fmt.Sprintf("departments:%d", id)
}

// ServiceCacheKey backs the cached single-service read.
func ServiceCacheKey(id uint) string {
	return fmt.Sprintf("services:%d", id)
}

func keyUserProfile(userID uint) string {
	return fmt.Sprintf("users:%d:profile", userID)
}

func keyUserOrderCount(userID uint) string {
	return fmt.Sprintf("orders:%d:count", userID)
}

// InvalidateOffers drops every cached offer projection.
func InvalidateOffers() {
	cache.Forget(OffersCacheKey)
}

// InvalidateDepartment drops every cached projection of one department.
func InvalidateDepartment(id uint) {
	cache.Forget(DepartmentCacheKey(id))
}

// InvalidateService drops every cached projection of one service.
func InvalidateService(id uint) {
	cache.Forget(ServiceCacheKey(id))
}

// InvalidateUser drops every cached projection derived from one user.
func InvalidateUser(userID uint) {
	cache.Forget(keyUserProfile(userID))
}

// InvalidateOrders drops every cached projection derived from one user's
// orders, plus the global offer listing a checkout may have touched.
func InvalidateOrders(userID uint) {
	cache.Forget(keyUserOrderCount(userID))
	cache.Forget(OffersCacheKey)
}
