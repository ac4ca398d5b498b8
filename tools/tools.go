//go:build tools

// Package tools pins the versions of the development tools used by this
// repository: mock generation, license headers, linting and test output.
package tools

import (
	_ "github.com/go-task/task/v3/cmd/task"
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/google/addlicense"
	_ "github.com/vektra/mockery/v2"
	_ "gotest.tools/gotestsum"
)
