package main

import (
	"github.com/labstack/gommon/color"

	"github.com/quickscribe/quickscribe/internal/app/gateway"
)

func main() {
	printBanner()
	gateway.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
              _      __                  _ __
  ____ ___  __(_)____/ /___________  _____(_) /_  ___
 / __ ` + "`" + `/ / / / / ___/ //_/ ___/ ___/ / ___/ / __ \/ _ \
/ /_/ / /_/ / / /__/ ,< (__  ) /__/ / /  / / /_/ /  __/
\__, /\__,_/_/\___/_/|_/____/\___/_/_/  /_/_.___/\___/
  /_/
   ____ _____ _/ /____ _      ______ ___  __
  / __ ` + "`" + `/ __ ` + "`" + `/ __/ _ \ | /| / / __ ` + "`" + `/ / / /
 / /_/ / /_/ / /_/  __/ |/ |/ / /_/ / /_/ /
 \__, /\__,_/\__/\___/|__/|__/\__,_/\__, / v: %s
/____/                             /____/
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/quickscribe/quickscribe"))
}
