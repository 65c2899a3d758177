package main

import "github.com/ValentinKolb/sqKV/cmd"

func main() {
	cmd.Execute()
}
