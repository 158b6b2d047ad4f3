// Package main provides the entry point for the dynamic-website
// application. It runs a server-rendered website built on the Fiber
// framework: a public site serving news articles, static pages,
// services, sliders and a contact form, and an admin area for managing
// that content, user accounts and site settings. Content and settings
// are persisted with gorm; uploaded media files live on the local
// filesystem next to the database-backed records that reference them.
package main
