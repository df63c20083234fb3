package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	token   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gobank-cli",
		Short: "GoBank CLI tool",
		Long:  `A command line interface for interacting with the GoBank API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the GoBank API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token from login")

	rootCmd.AddCommand(accountCmd(), authCmd(), ledgerCmd(), transferCmd(), loanCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var name, email, password string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Open a new account",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts", map[string]any{
				"name":     name,
				"email":    email,
				"password": password,
			})
		},
	}
	registerCmd.Flags().StringVar(&name, "name", "", "Account holder name")
	registerCmd.Flags().StringVar(&email, "email", "", "Account email")
	registerCmd.Flags().StringVar(&password, "password", "", "Account password")
	registerCmd.MarkFlagRequired("name")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	getCmd := &cobra.Command{
		Use:   "get [account-number]",
		Short: "Show an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0], nil)
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history [account-number]",
		Short: "List transactions, most recent first",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/transactions", nil)
		},
	}

	categoriesCmd := &cobra.Command{
		Use:   "categories [account-number]",
		Short: "Show spending totals per category",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/summary/categories", nil)
		},
	}

	monthlyCmd := &cobra.Command{
		Use:   "monthly [account-number]",
		Short: "Show monthly deposit and withdrawal totals",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/summary/monthly", nil)
		},
	}

	cmd.AddCommand(registerCmd, getCmd, historyCmd, categoriesCmd, monthlyCmd)
	return cmd
}

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication operations",
	}

	var accountNo, password string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a bearer token",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
				"account_no": accountNo,
				"password":   password,
			})
		},
	}
	loginCmd.Flags().StringVar(&accountNo, "account", "", "Account number")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password")
	loginCmd.MarkFlagRequired("account")
	loginCmd.MarkFlagRequired("password")

	cmd.AddCommand(loginCmd)
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	var amount, category string
	depositCmd := &cobra.Command{
		Use:   "deposit [account-number]",
		Short: "Record a deposit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts/"+args[0]+"/deposits", map[string]any{
				"amount":   amount,
				"category": category,
			})
		},
	}
	depositCmd.Flags().StringVar(&amount, "amount", "", "Amount to deposit")
	depositCmd.Flags().StringVar(&category, "category", "", "Transaction category")
	depositCmd.MarkFlagRequired("amount")

	withdrawCmd := &cobra.Command{
		Use:   "withdraw [account-number]",
		Short: "Record a withdrawal",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/accounts/"+args[0]+"/withdrawals", map[string]any{
				"amount":   amount,
				"category": category,
			})
		},
	}
	withdrawCmd.Flags().StringVar(&amount, "amount", "", "Amount to withdraw")
	withdrawCmd.Flags().StringVar(&category, "category", "", "Transaction category")
	withdrawCmd.MarkFlagRequired("amount")

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check that balances match transaction sums",
		Run: func(cmd *cobra.Command, args []string) {
			checkConsistency()
		},
	}

	cmd.AddCommand(depositCmd, withdrawCmd, consistencyCmd)
	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between accounts",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/transfers", map[string]any{
				"from_account_no": from,
				"to_account_no":   to,
				"amount":          amount,
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Sender account number")
	cmd.Flags().StringVar(&to, "to", "", "Recipient account number")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func loanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}

	var accountNo, principal, rate string
	var termMonths int
	applyCmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply for a loan",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/loans", map[string]any{
				"account_no":  accountNo,
				"principal":   principal,
				"term_months": termMonths,
				"annual_rate": rate,
			})
		},
	}
	applyCmd.Flags().StringVar(&accountNo, "account", "", "Borrowing account number")
	applyCmd.Flags().StringVar(&principal, "principal", "", "Loan principal")
	applyCmd.Flags().IntVar(&termMonths, "term", 12, "Term in months")
	applyCmd.Flags().StringVar(&rate, "rate", "", "Annual interest rate percent")
	applyCmd.MarkFlagRequired("account")
	applyCmd.MarkFlagRequired("principal")
	applyCmd.MarkFlagRequired("rate")

	var amount string
	payCmd := &cobra.Command{
		Use:   "pay [loan-id]",
		Short: "Record a loan payment",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/loans/"+args[0]+"/payments", map[string]any{
				"amount": amount,
			})
		},
	}
	payCmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	payCmd.MarkFlagRequired("amount")

	listCmd := &cobra.Command{
		Use:   "list [account-number]",
		Short: "List an account's active loans",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/accounts/"+args[0]+"/loans", nil)
		},
	}

	cmd.AddCommand(applyCmd, payCmd, listCmd)
	return cmd
}

func doRequest(method, path string, payload map[string]any) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
		pretty.Write(respBody)
	}

	fmt.Printf("Status: %d\n%s\n", resp.StatusCode, pretty.String())

	if resp.StatusCode >= 400 {
		os.Exit(1)
	}
}

func checkConsistency() {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var result struct {
		Consistent           bool     `json:"consistent"`
		InconsistentAccounts []string `json:"inconsistent_accounts"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	if !result.Consistent {
		fmt.Printf("Consistency check FAILED\nAccounts: %v\n", result.InconsistentAccounts)
		os.Exit(1)
	}

	fmt.Println("Consistency check PASSED")
}
