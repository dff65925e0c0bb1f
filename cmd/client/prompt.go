package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/teameicu/careportal/internal/client/api"
)

func promptLine(scanner *bufio.Scanner, label string) string {
	fmt.Print(label)
	scanner.Scan()
	return strings.TrimSpace(scanner.Text())
}

func promptCredentials(scanner *bufio.Scanner) (identifier, password string) {
	identifier = promptLine(scanner, "Email or username: ")
	password = promptLine(scanner, "Password: ")
	return identifier, password
}

func promptRegistration(scanner *bufio.Scanner) api.RegisterInput {
	in := api.RegisterInput{
		Username: promptLine(scanner, "Username: "),
		Email:    promptLine(scanner, "Email: "),
		Password: promptLine(scanner, "Password: "),
		Role:     promptLine(scanner, "Role (Patient/Doctor): "),
	}
	if strings.EqualFold(in.Role, "Doctor") {
		in.Role = "Doctor"
		in.Hospital = promptLine(scanner, "Hospital: ")
		in.Designation = promptLine(scanner, "Designation: ")
	} else {
		in.Role = "Patient"
	}
	return in
}

// promptVitals reads the prediction form. Empty answers keep the
// server-side defaults.
func promptVitals(scanner *bufio.Scanner) api.Vitals {
	var v api.Vitals
	v.Age = promptInt(scanner, "Age: ")
	v.HeartRate = promptInt(scanner, "Heart rate: ")
	v.SystolicBP = promptInt(scanner, "Systolic BP: ")
	v.RespiratoryRate = promptInt(scanner, "Respiratory rate: ")
	return v
}

func promptInt(scanner *bufio.Scanner, label string) *int {
	raw := promptLine(scanner, label)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Printf("Ignoring %q: not a number\n", raw)
		return nil
	}
	return &n
}

func promptContact(scanner *bufio.Scanner) (name, email, message string) {
	name = promptLine(scanner, "Name: ")
	email = promptLine(scanner, "Email: ")
	message = promptLine(scanner, "Message: ")
	return name, email, message
}
