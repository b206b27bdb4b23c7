// Package types defines the entity records, the planting status machine,
// the civil Date value and the standard errors shared by the storage,
// interactive and reporting layers of agrorganica.
package types
