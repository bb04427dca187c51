package main

import "myblog/mvc"

func main() {
	mvc.Execute()
}
