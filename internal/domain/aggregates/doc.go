// Package aggregates declares the recipe write boundary and its error model.
// Nothing here knows about gorm or HTTP.
package aggregates
