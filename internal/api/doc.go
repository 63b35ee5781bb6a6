// Package api handles incoming HTTP requests for the local study server,
// routing, request validation and response formatting. It acts as an adapter
// between HTTP clients (editor plugins, a browser tab) and the card and review
// services, translating HTTP concerns to business operations.
package api
