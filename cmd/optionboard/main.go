// Command optionboard 从 CSV 行情构建期权报价板，并输出定价、希腊字母与敞口。
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
