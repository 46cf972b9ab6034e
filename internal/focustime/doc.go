// Package focustime books recurring "do not book" blocks on a calendar.
package focustime
