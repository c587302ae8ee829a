// Package templates holds the templ components rendered by the web service.
//
// Components are pure: they read only their arguments and the children
// carried on the context, and write escaped HTML.
package templates
