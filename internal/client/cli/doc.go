// Package cli implements chatctl, the maintenance tool for a running
// gophchat server.
//
// Commands:
//
//	sweep [-now RFC3339]   delete expired sessions (admin key required)
//	whoami -token TOKEN    resolve a session token to its user and session
//	revoke -session ID     delete a session (admin key required)
//	ping                   check the session service health
//	hash-password          prompt for a password and print salt and hash
//	put-blob -url U -file F  upload F to a presigned attachment URL
//	get-blob -url U -out F   download a presigned attachment URL into F
//
// sweep is meant to be run from cron or a systemd timer; the server never
// schedules it on its own.
package cli
