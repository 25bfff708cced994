// Package session owns a single wizard session: authentication outcomes, the
// fetched schema, entered values, validation errors and section navigation.
//
// A Controller is safe for concurrent use. Remote calls run outside its lock;
// completions of superseded logins are discarded.
package session
