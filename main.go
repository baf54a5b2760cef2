// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/lazypkg/lazypkg/cmd/lazypkg"

func main() {
	cmd.Execute()
}
