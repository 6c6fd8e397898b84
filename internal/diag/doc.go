// Package diag holds the package-level diagnostic logger shared by every
// keyedsem component. It lives here, rather than in the root package,
// because internal packages that need to log (the pool) cannot import the
// root package without an import cycle; the root package's Logger/SetLogger
// simply delegate to this one.
package diag
