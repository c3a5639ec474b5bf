package main

import (
	"context"
	"fmt"
)

// resetJoinCode replaces the join code of any class, e.g. after it leaked.
func (cli *commandLine) resetJoinCode(classID int) error {
	class, err := cli.classSvc.ResetJoinCode(context.Background(), classID)
	if err != nil {
		return err
	}
	fmt.Printf("New join code for %q: %s\n", class.Name, class.JoinCode)
	return nil
}
