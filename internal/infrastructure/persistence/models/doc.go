// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain stays free of ORM
// tags. Each model converts to and from its entity with ToDomain and FromDomain.
//
// Unique index names are significant: the repositories translate a violated
// index back to the request field it guards.
package models
