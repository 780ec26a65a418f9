// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/strictly-typed/strictly/cmd/strictly"

func main() {
	cmd.Execute()
}
