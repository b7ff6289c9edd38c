// Package main provides the entry point for the Xanh Energy back office.
// It initializes and runs a web server using the Fiber framework that serves
// the admin REST API for the bilingual marketing site content, the uploads
// store and a small server-rendered dashboard. The application uses gorm for
// data persistence against sqlite, mysql or postgres.
package main
