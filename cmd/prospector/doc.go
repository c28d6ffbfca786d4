// Command prospector collects leads from a paginated people search API into
// local lists and verifies their email addresses.
//
// Every run is resumable: the list remembers the last committed page and the
// last processed person, so rerunning "fetch leads" or "fetch emails" after a
// failure picks up exactly where the previous run stopped.
package main
