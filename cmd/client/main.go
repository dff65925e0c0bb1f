// Package main is the interactive terminal client for the care portal.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teameicu/careportal/internal/client/api"
	"github.com/teameicu/careportal/internal/client/portal"
	"github.com/teameicu/careportal/internal/client/reports"
	"github.com/teameicu/careportal/internal/client/session"
	"github.com/teameicu/careportal/internal/models"
)

var (
	version   string
	buildDate string
)

const refreshInterval = 30 * time.Second

type app struct {
	client  *api.Client
	portal  *portal.Portal
	reports *reports.LocalReports

	// cancels the background history refresh of the current login
	stopRefresh context.CancelFunc
}

func (a *app) startRefresh() {
	a.stopRefreshLoop()
	sess := a.portal.Session()
	if !sess.LoggedIn || sess.Token == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.stopRefresh = cancel
	reports.StartAutoRefresh(ctx, a.client, sess.Token, sess.Email, a.reports, refreshInterval, zap.NewNop())
}

func (a *app) stopRefreshLoop() {
	if a.stopRefresh != nil {
		a.stopRefresh()
		a.stopRefresh = nil
	}
}

func errMessage(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return err.Error()
}

// repl runs the interactive shell loop.
func (a *app) repl() {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("careportal> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, login, register, send-otp <email>, verify-otp <email> <code>, whoami, predict, history, report, contact, logout, exit")
		case "login":
			identifier, password := promptCredentials(scanner)
			state, dest, err := a.portal.Login(context.Background(), identifier, password)
			if err != nil {
				fmt.Println("Login failed:", errMessage(err))
				continue
			}
			a.startRefresh()
			fmt.Printf("Logged in as %s -> %s\n", state, dest)
		case "register":
			in := promptRegistration(scanner)
			user, err := a.client.Register(context.Background(), in)
			if err != nil {
				fmt.Println("Registration failed:", errMessage(err))
				continue
			}
			dest := a.portal.RegisterSuccess(user.Username, session.UserRecord{
				Email:       user.Email,
				Role:        user.Role,
				Hospital:    in.Hospital,
				Designation: in.Designation,
				PatientID:   user.PatientID,
			})
			fmt.Printf("Registered %s (%s) -> %s\n", user.Username, user.PatientID, dest)
			fmt.Println("Verify your email with: send-otp", user.Email)
		case "send-otp":
			if len(args) < 2 {
				fmt.Println("Usage: send-otp <email>")
				continue
			}
			if err := a.client.SendEmailOTP(context.Background(), args[1]); err != nil {
				fmt.Println("Failed:", errMessage(err))
				continue
			}
			fmt.Println("OTP sent, check your inbox")
		case "verify-otp":
			if len(args) < 3 {
				fmt.Println("Usage: verify-otp <email> <code>")
				continue
			}
			msg, err := a.client.VerifyEmailOTP(context.Background(), args[1], args[2])
			if err != nil {
				fmt.Println("Failed:", errMessage(err))
				continue
			}
			fmt.Println(msg)
		case "whoami":
			sess := a.portal.Session()
			if !sess.LoggedIn {
				fmt.Println("Not logged in")
				continue
			}
			fmt.Printf("%s <%s> state=%s\n", sess.Username, sess.Email, a.portal.State())
		case "predict":
			sess := a.portal.Session()
			if sess.Token == "" {
				fmt.Println("Log in first")
				continue
			}
			res, err := a.client.Predict(context.Background(), sess.Token, promptVitals(scanner))
			if err != nil {
				fmt.Println("Prediction failed:", errMessage(err))
				continue
			}
			a.reports.Add(toPrediction(res, sess.Email))
			_ = a.reports.Save()
			fmt.Printf("LOS: %.1f days, mortality: %.1f%%, risk: %s\n", res.LOSDays, res.MortalityPct, res.RiskLevel)
		case "history":
			sess := a.portal.Session()
			if sess.Token != "" {
				if err := reports.RefreshFromServer(context.Background(), a.client, sess.Token, sess.Email, a.reports); err != nil {
					fmt.Println("Refresh failed:", errMessage(err))
				}
			}
			preds := a.reports.List()
			if len(preds) == 0 {
				fmt.Println("No predictions yet")
				continue
			}
			for _, p := range preds {
				fmt.Printf("%s  LOS %.1f days  mortality %.1f%%  %s\n",
					time.Unix(p.CreatedAt, 0).Format("2006-01-02 15:04"),
					p.LOSDays, p.MortalityPct, p.RiskLevel)
			}
		case "report":
			sess := a.portal.Session()
			if sess.Token == "" {
				fmt.Println("Log in first")
				continue
			}
			data, filename, err := a.client.DownloadReport(context.Background(), sess.Token, sess.Email)
			if err != nil {
				fmt.Println("Download failed:", errMessage(err))
				continue
			}
			if data == nil {
				fmt.Println("No predictions to report")
				continue
			}
			if err := os.WriteFile(filename, data, 0o600); err != nil {
				fmt.Println("Cannot write report:", err)
				continue
			}
			fmt.Println("Saved", filename)
		case "contact":
			name, email, message := promptContact(scanner)
			msg, err := a.client.Contact(context.Background(), name, email, message)
			if err != nil {
				fmt.Println("Failed:", errMessage(err))
				continue
			}
			fmt.Println(msg)
		case "logout":
			a.stopRefreshLoop()
			dest := a.portal.Logout()
			fmt.Println("Logged out ->", dest)
		case "exit":
			a.stopRefreshLoop()
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func toPrediction(res *api.PredictionResult, email string) models.Prediction {
	return models.Prediction{
		ID:           res.PatientID,
		Email:        email,
		LOSDays:      res.LOSDays,
		MortalityPct: res.MortalityPct,
		RiskLevel:    res.RiskLevel,
		CreatedAt:    time.Now().Unix(),
	}
}

func main() {
	var (
		baseURL     string
		storePath   string
		reportsPath string
		showVer     bool
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8000", "server base URL")
	flag.StringVar(&storePath, "store", "session.json", "path to the session store file")
	flag.StringVar(&reportsPath, "reports", "reports.json", "path to the prediction cache file")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("CarePortal Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	store := session.NewFileStore(storePath)
	client := api.New(baseURL)

	a := &app{
		client:  client,
		portal:  portal.New(store, client, zap.NewNop()),
		reports: reports.Load(reportsPath),
	}
	a.startRefresh()
	a.repl()
}
