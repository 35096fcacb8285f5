package main

import (
	"github.com/labstack/gommon/color"

	"github.com/quickscribe/quickscribe/internal/app/client"
)

func main() {
	printBanner()
	client.Execute()
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
       _____/ (_)__  ____  / /_
      / ___/ / / _ \/ __ \/ __/
     / /__/ / /  __/ / / / /_
     \___/_/_/\___/_/ /_/\__/ v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/quickscribe/quickscribe"))
}
