// Command pos is the terminal checkout: search the catalog, build a cart,
// take a payment, and register the sale.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ohana-pos/pos/internal/cart"
	"github.com/ohana-pos/pos/internal/config"
	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/posapi"
	"github.com/ohana-pos/pos/internal/session"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := session.NewFileStore(cfg.TokenPath)
	if err != nil {
		log.Fatalf("Failed to open token store: %v", err)
	}
	client := posapi.NewClient(cfg.APIURL, store)
	sess := session.New(client, store)

	in := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	if err := ensureLogin(ctx, sess, cfg, in); err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	products, err := fetchProducts(ctx, client)
	if err != nil {
		log.Fatalf("Failed to load products: %v", err)
	}
	fmt.Printf("Loaded %d products. Type 'help' for commands.\n", len(products))

	c := cart.New()
	for {
		fmt.Printf("[%d items, $%.2f] > ", c.Len(), c.Total())
		if !in.Scan() {
			return
		}
		cmd, arg, _ := strings.Cut(strings.TrimSpace(in.Text()), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "", "help":
			printHelp()
		case "list":
			printProducts(cart.Filter(products, arg))
		case "sup":
			printProducts(cart.FilterBySupplier(products, arg))
		case "add":
			p, ok := cart.FindByQuery(products, arg)
			if !ok {
				fmt.Println("Product not found")
				continue
			}
			if err := c.Add(p); err != nil {
				fmt.Println(err)
			}
		case "dec", "rm":
			p, ok := findInCart(c, arg)
			if !ok {
				fmt.Println("Not in cart")
				continue
			}
			if cmd == "dec" {
				c.Decrease(p.ID)
			} else {
				c.Remove(p.ID)
			}
		case "cart":
			printCart(c)
		case "clear":
			if confirm(in, "Empty the cart?") {
				c.Clear()
			}
		case "pay":
			tendered, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				fmt.Println("Usage: pay <amount>")
				continue
			}
			products = pay(ctx, client, c, tendered, in, products)
		case "logout":
			if err := sess.Logout(); err != nil {
				fmt.Println(err)
			}
			return
		case "quit", "exit":
			return
		default:
			fmt.Println("Unknown command; type 'help'")
		}
	}
}

func ensureLogin(ctx context.Context, sess *session.Session, cfg *config.ClientConfig, in *bufio.Scanner) error {
	if sess.Active() {
		return nil
	}
	username, password := cfg.Username, cfg.Password
	if username == "" {
		fmt.Print("Username: ")
		if !in.Scan() {
			return errors.New("no input")
		}
		username = strings.TrimSpace(in.Text())
	}
	if password == "" {
		fmt.Print("Password: ")
		if !in.Scan() {
			return errors.New("no input")
		}
		password = strings.TrimSpace(in.Text())
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return sess.Login(ctx, username, password)
}

func fetchProducts(ctx context.Context, client *posapi.Client) ([]model.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return client.Products(ctx)
}

func pay(ctx context.Context, client *posapi.Client, c *cart.Cart, tendered float64, in *bufio.Scanner, products []model.Product) []model.Product {
	if c.IsEmpty() {
		fmt.Println("Cart is empty")
		return products
	}
	change := c.Change(tendered)
	if change < 0 {
		fmt.Printf("Not enough: total is $%.2f\n", c.Total())
		return products
	}
	fmt.Printf("Total $%.2f, received $%.2f, change $%.2f\n", c.Total(), tendered, change)
	if !confirm(in, "Confirm sale?") {
		return products
	}

	callCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	sale, err := c.Checkout(callCtx, client, tendered)
	if err != nil {
		// Cart stays intact; the cashier decides what to do next.
		fmt.Printf("Sale rejected: %v\n", err)
		return products
	}
	fmt.Printf("Sale %s registered. Change: $%.2f\n", sale.Folio, sale.Change)

	// Refetch so the listing reflects the server-side stock decrement
	refreshed, err := fetchProducts(ctx, client)
	if err != nil {
		fmt.Printf("Could not refresh products: %v\n", err)
		return products
	}
	return refreshed
}

func findInCart(c *cart.Cart, query string) (model.Product, bool) {
	q := strings.ToLower(query)
	for _, l := range c.Lines() {
		if strings.ToLower(l.Product.Code) == q || strings.ToLower(l.Product.Name) == q {
			return l.Product, true
		}
	}
	return model.Product{}, false
}

func printProducts(products []model.Product) {
	if len(products) == 0 {
		fmt.Println("No products")
		return
	}
	for _, p := range products {
		fmt.Printf("  %-8s %-24s $%8.2f  stock %3d  [%s]\n", p.Code, p.Name, p.Price, p.Stock, p.Supplier)
	}
}

func printCart(c *cart.Cart) {
	if c.IsEmpty() {
		fmt.Println("Cart is empty")
		return
	}
	for _, l := range c.Lines() {
		fmt.Printf("  %-24s x%-3d $%8.2f\n", l.Product.Name, l.Qty, l.Subtotal())
	}
	fmt.Printf("Total: $%.2f\n", c.Total())
}

func confirm(in *bufio.Scanner, prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	if !in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(in.Text()))
	return answer == "y" || answer == "yes"
}

func printHelp() {
	fmt.Println(`Commands:
  list [query]   show products (optionally filtered by name/code)
  sup <tag>      show products from one supplier
  add <code>     add one unit to the cart (code or exact name)
  dec <code>     remove one unit
  rm <code>      drop the line
  cart           show the cart
  clear          empty the cart (asks first)
  pay <amount>   take payment and register the sale
  logout         end the session and exit
  quit           exit`)
}
