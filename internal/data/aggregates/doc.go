// Package aggregates implements the recipe write boundary on gorm.
//
// Each write locks the owning user row, runs the tag and relation guards
// against the locked graph, then replaces the owned rows in the same
// transaction. Failures come back as *domainagg.Error via MapError.
package aggregates
