// Package models contains GORM persistence models that map to database tables.
// They are kept apart from domain entities so the domain layer stays free of ORM tags;
// each model carries ToDomain/FromDomain mappers used by the repositories.
//
// Tables:
//   - carts, cart_items: cart.go
//   - orders, order_items: order.go
//   - products, customers: reference.go (read-only views of other subsystems)
package models
