// Package database provides the GORM connection used by user storage,
// with driver selection, connection pooling, retrying startup, health
// checks, transactions and auto-migration.
//
// Drivers:
//
//   - mysql:  production; DSN assembled from host/port/user/password/name
//     when not given directly
//   - sqlite: local development and tests (":memory:" supported)
//
// The Component type plugs the connection into the component registry:
//
//	comp := database.NewComponent(cfg, log).WithAutoMigrate(&users.User{})
//	registry.Register(comp)
package database
