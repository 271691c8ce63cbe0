// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns. Each model has ToDomain and FromDomain mappers.
//
// Structure:
// - base.go: BaseModel shared by every table
// - identity.go: users
// - catalog.go: products
// - cart.go: cart_items
// - trade.go: orders and order_items
// - sourcing.go: product_requests
package models
