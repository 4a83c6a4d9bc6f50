// Package context stores named raccoon servers for 'raccoon trigger'.
//
// Contexts live in ~/.config/raccoon/contexts.yaml:
//
//	current-context: production
//	contexts:
//	  - name: local
//	    endpoint: http://localhost:8080
//	  - name: production
//	    endpoint: https://raccoon.example.com
//	    output: json
//
// Storage.Resolve turns the --endpoint and --context flags, the
// RACCOON_CONTEXT environment variable and the current context into the
// endpoint to call. A stale current-context falls back silently; an
// explicitly named missing context is an error.
package context
