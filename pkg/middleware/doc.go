// Package middleware holds the global HTTP middleware the kernel wraps
// around the router: panic recovery, request IDs, request logging and CORS.
package middleware
