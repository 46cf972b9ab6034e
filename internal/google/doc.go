// Package google provides OAuth2 token access for the Google Calendar API.
//
// Tokens are read from files in a token directory, one per account. How a
// token file is obtained is outside the scope of timewise.
package google
