// Package main provides the akixi command-line client.
//
// akixi logs in to an Akixi call-reporting service, lists the reports
// available to the user and executes them.
//
// Usage:
//
//	akixi reports --search sales
//	akixi run <report-id> --jq '.Rows[] | .Name'
//	akixi types
//
// Credentials are read from AKIXI_HOST, AKIXI_USERNAME and AKIXI_PASSWORD.
package main

func main() {
	Execute()
}
