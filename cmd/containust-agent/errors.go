package main

import "fmt"

func errUnknownMethod(method string) error {
	return fmt.Errorf("unknown method %q", method)
}

func errBadParams(msg string) error {
	return fmt.Errorf("bad params: %s", msg)
}

func errNotFound(id string) error {
	return fmt.Errorf("container %q not found", id)
}
