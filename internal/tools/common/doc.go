// Package common holds helpers shared by the MCP tool packages: argument
// parsing, account selection and handler instrumentation.
package common
