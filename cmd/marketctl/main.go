package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
)

// marketctl drives a running marketplace server over its HTTP API,
// one subcommand per marketplace operation.

var client = &http.Client{Timeout: 10 * time.Second}

func main() {
	app := &cli.App{
		Name:  "marketctl",
		Usage: "invoke marketplace operations on a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "http://localhost:8081", Usage: "base URL of the marketplace server"},
			&cli.StringFlag{Name: "caller", Value: "owner", Usage: "account performing the operation"},
		},
		Commands: []*cli.Command{
			{
				Name:  "set-minter",
				Usage: "delegate minting authority on an asset contract",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Required: true, Usage: "asset kind: unique or multi"},
					&cli.StringFlag{Name: "minter", Required: true, Usage: "account to delegate minting to"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/minter", map[string]any{
						"caller": c.String("caller"),
						"kind":   c.String("kind"),
						"addr":   c.String("minter"),
					})
				},
			},
			{
				Name:  "create-item",
				Usage: "mint a new item to the caller",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "uri", Required: true, Usage: "metadata uri"},
					&cli.Uint64Flag{Name: "amount", Usage: "amount of units for a multi-supply item"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/items", map[string]any{
						"caller": c.String("caller"),
						"uri":    c.String("uri"),
						"amount": c.Uint64("amount"),
					})
				},
			},
			{
				Name:  "list-item",
				Usage: "list an item for fixed-price sale",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "id", Required: true, Usage: "token id"},
					&cli.Uint64Flag{Name: "price", Required: true, Usage: "sale price"},
					&cli.Uint64Flag{Name: "amount", Usage: "amount of units for a multi-supply item"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/sales", map[string]any{
						"caller":   c.String("caller"),
						"token_id": c.Uint64("id"),
						"price":    c.Uint64("price"),
						"amount":   c.Uint64("amount"),
					})
				},
			},
			{
				Name:  "list-item-auction",
				Usage: "list an item for auction",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "id", Required: true, Usage: "token id"},
					&cli.Uint64Flag{Name: "price", Required: true, Usage: "starting price"},
					&cli.Uint64Flag{Name: "amount", Usage: "amount of units for a multi-supply item"},
				},
				Action: func(c *cli.Context) error {
					return post(c, "/auctions", map[string]any{
						"caller":      c.String("caller"),
						"token_id":    c.Uint64("id"),
						"start_price": c.Uint64("price"),
						"amount":      c.Uint64("amount"),
					})
				},
			},
			{
				Name:  "buy-item",
				Usage: "buy a listed item",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "sale", Required: true, Usage: "sale id"},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/sales/%d/buy", c.Uint64("sale"))
					return post(c, path, map[string]any{"caller": c.String("caller")})
				},
			},
			{
				Name:  "cancel",
				Usage: "cancel a sale and reclaim the asset",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "sale", Required: true, Usage: "sale id"},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/sales/%d/cancel", c.Uint64("sale"))
					return post(c, path, map[string]any{"caller": c.String("caller")})
				},
			},
			{
				Name:  "bid",
				Usage: "bid on an auction",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "auction", Required: true, Usage: "auction id"},
					&cli.Uint64Flag{Name: "price", Required: true, Usage: "bid price"},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/auctions/%d/bids", c.Uint64("auction"))
					return post(c, path, map[string]any{
						"caller": c.String("caller"),
						"price":  c.Uint64("price"),
					})
				},
			},
			{
				Name:  "finish-auction",
				Usage: "finish an auction after its time lock",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "auction", Required: true, Usage: "auction id"},
				},
				Action: func(c *cli.Context) error {
					path := fmt.Sprintf("/auctions/%d/finish", c.Uint64("auction"))
					return post(c, path, map[string]any{})
				},
			},
			{
				Name:  "sale",
				Usage: "show a sale record",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "sale", Required: true, Usage: "sale id"},
				},
				Action: func(c *cli.Context) error {
					return get(c, fmt.Sprintf("/sales/%d", c.Uint64("sale")))
				},
			},
			{
				Name:  "auction",
				Usage: "show an auction record",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "auction", Required: true, Usage: "auction id"},
				},
				Action: func(c *cli.Context) error {
					return get(c, fmt.Sprintf("/auctions/%d", c.Uint64("auction")))
				},
			},
			{
				Name:  "counts",
				Usage: "show sale and auction counters",
				Action: func(c *cli.Context) error {
					return get(c, "/counts")
				},
			},
			{
				Name:  "balance",
				Usage: "show the caller's pay-token balance",
				Action: func(c *cli.Context) error {
					return get(c, "/balances/"+c.String("caller"))
				},
			},
			{
				Name:  "events",
				Usage: "show the token transfer journal",
				Action: func(c *cli.Context) error {
					return get(c, "/events")
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func post(c *cli.Context, path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	resp, err := client.Post(c.String("addr")+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func get(c *cli.Context, path string) error {
	resp, err := client.Get(c.String("addr") + path)
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	fmt.Println(string(body))

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("server returned %s", resp.Status)
	}
	return nil
}
