// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command uawatch discovers an OPC UA server, subscribes to a set of
// variables and reports every data change until interrupted.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/edgeo-scada/uawatch"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for unusable configuration and 1 for every other failure.
func exitCode(err error) int {
	if errors.Is(err, uawatch.ErrInvalidConfig) || errors.Is(err, uawatch.ErrInvalidNodeID) || errors.Is(err, errUsage) {
		return 2
	}
	return 1
}
