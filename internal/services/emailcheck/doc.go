// Package emailcheck is the client for the address verification API.
package emailcheck
