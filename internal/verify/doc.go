// Package verify derives candidate email addresses for stored leads and
// confirms them with the email source.
//
// Records are read in windows anchored at the collection's verified_count,
// so a rerun continues after the last settled record. A record without a
// company website is settled without any request.
package verify
