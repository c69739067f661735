// Package environment resolves the application environment (development,
// staging, production) from configuration.
//
// Code that must behave differently outside production, such as the passcode
// delivery fallback or the Secure flag on cookies, asks Environment.IsProduction
// instead of comparing raw strings.
package environment
