// Package session tracks browser sessions for the web front end.
//
// A session is identified by a cookie holding a random ID. Each session owns
// one live Search screen and its own slice of the term store.
package session
