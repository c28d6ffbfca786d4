// Package leadsource is the client for the paginated people search API that
// feeds lead collections. It encodes a filter.Spec plus continuation token
// into a GET request and classifies failures with the services markers.
package leadsource
