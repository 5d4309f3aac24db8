package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"

	"github.com/artvia/artvia-backend/internal/cart"
	"github.com/artvia/artvia-backend/internal/favorites"
	"github.com/artvia/artvia-backend/pkg/apiclient"
	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/db/models"
	"github.com/artvia/artvia-backend/pkg/eventbus"
	"github.com/artvia/artvia-backend/pkg/localstore"
	"github.com/artvia/artvia-backend/pkg/logger"
)

const usage = `gallery - browse the art gallery from the terminal

commands:
  browse                      list the catalog
  trending [-limit n]         list trending artworks
  show <artwork-id>           show one artwork (records a view)
  like <artwork-id>           toggle your like (needs -user)
  fav add|remove|toggle <id>  manage your local favorites
  fav list                    print your favorites
  fav trending                rank your favorites by trending order
  cart add <artwork-id>       put an artwork in the cart
  cart qty <artwork-id> <n>   change a line's quantity
  cart remove <artwork-id>    drop a line
  cart show                   print the cart
  cart clear                  empty the cart
  checkout                    submit the cart as a payment
`

type app struct {
	client    *apiclient.Client
	cart      *cart.Manager
	favorites *favorites.Manager
	out       io.Writer
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "gallery"})
	_ = godotenv.Load()

	userID := flag.String("user", os.Getenv("ARTVIA_USER"), "identity used for likes")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gallery",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Output:      os.Stderr,
	})

	stateDir := cfg.Client.StateDir
	if stateDir == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".artvia")
	}
	store, err := localstore.NewFileStore(stateDir, logg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open state dir: %v\n", err)
		os.Exit(1)
	}

	client, err := apiclient.New(cfg.Client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "api client: %v\n", err)
		os.Exit(1)
	}
	if *userID != "" {
		client = client.WithIdentity(*userID)
	}

	bus := eventbus.New(logg)
	a := &app{
		client:    client,
		cart:      cart.NewManager(store, bus, logg),
		favorites: favorites.NewManager(store, bus, logg),
		out:       os.Stdout,
	}

	// The bus is how the cart and favorites views stay current in the
	// frontend; here it just narrates state changes.
	bus.Subscribe(eventbus.TopicCartUpdated, func(any) {
		stats := a.cart.Stats()
		fmt.Fprintf(a.out, "cart: %d items, total Rs. %s\n", stats.TotalQuantity, a.cart.Total().StringFixed(2))
	})
	bus.Subscribe(eventbus.TopicFavoritesUpdated, func(any) {
		fmt.Fprintf(a.out, "favorites: %d artworks\n", a.favorites.Count())
	})

	if err := a.run(context.Background(), args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "browse":
		return a.browse(ctx)
	case "trending":
		return a.trending(ctx, args[1:])
	case "show":
		return a.show(ctx, args[1:])
	case "like":
		return a.like(ctx, args[1:])
	case "fav":
		return a.fav(ctx, args[1:])
	case "cart":
		return a.cartCmd(ctx, args[1:])
	case "checkout":
		return a.checkout(ctx, args[1:])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (a *app) browse(ctx context.Context) error {
	artworks, err := a.client.ListArtworks(ctx)
	if err != nil {
		return err
	}
	a.printArtworks(artworks)
	return nil
}

func (a *app) trending(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trending", flag.ContinueOnError)
	limit := fs.Int("limit", 0, "number of artworks (0 = server default)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	artworks, err := a.client.Trending(ctx, *limit)
	if err != nil {
		// Trending is a nicety. When it is down, show the plain
		// catalog instead of nothing.
		fmt.Fprintln(os.Stderr, "trending unavailable, showing the catalog instead")
		artworks, err = a.client.ListArtworks(ctx)
		if err != nil {
			return err
		}
	}
	a.printArtworks(artworks)
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <artwork-id>")
	}
	artwork, err := a.client.GetArtwork(ctx, args[0])
	if err != nil {
		return err
	}
	views, err := a.client.RecordView(ctx, args[0])
	if err == nil {
		artwork.Views = views
	}

	fmt.Fprintf(a.out, "%s by %s\n", artwork.ArtType, artwork.ArtistName)
	fmt.Fprintf(a.out, "  %s\n", artwork.Description)
	fmt.Fprintf(a.out, "  Rs. %s  |  %d likes  |  %d views  |  %d favorites\n",
		artwork.Price.StringFixed(2), artwork.Likes, artwork.Views, artwork.FavoritesCount)
	return nil
}

func (a *app) like(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: like <artwork-id>")
	}
	result, err := a.client.ToggleLike(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%d likes)\n", result.Action, result.Likes)
	return nil
}

func (a *app) fav(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: fav add|remove|toggle|list|trending [artwork-id]")
	}

	switch args[0] {
	case "list":
		for _, id := range a.favorites.Get() {
			fmt.Fprintln(a.out, id)
		}
		return nil

	case "trending":
		artworks, err := a.client.TrendingFavorites(ctx, a.favorites.Get())
		if err != nil {
			return err
		}
		a.printArtworks(artworks)
		return nil

	case "add", "remove", "toggle":
		if len(args) != 2 {
			return fmt.Errorf("usage: fav %s <artwork-id>", args[0])
		}
		id := args[1]
		switch args[0] {
		case "add":
			if a.favorites.Add(id) {
				a.reportFavorite(ctx, id, "add")
			}
		case "remove":
			had := a.favorites.Is(id)
			a.favorites.Remove(id)
			if had {
				a.reportFavorite(ctx, id, "remove")
			}
		case "toggle":
			if a.favorites.Toggle(id) {
				a.reportFavorite(ctx, id, "add")
			} else {
				a.reportFavorite(ctx, id, "remove")
			}
		}
		return nil

	default:
		return fmt.Errorf("unknown fav command %q", args[0])
	}
}

// reportFavorite keeps the server-side tally roughly in step with the
// local list. The tally is best-effort; a failed report is not an error.
func (a *app) reportFavorite(ctx context.Context, id, action string) {
	if _, err := a.client.Favorite(ctx, id, action); err != nil {
		fmt.Fprintf(os.Stderr, "favorites tally not updated: %v\n", err)
	}
}

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cart add|qty|remove|show|clear [args]")
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			return fmt.Errorf("usage: cart add <artwork-id>")
		}
		artwork, err := a.client.GetArtwork(ctx, args[1])
		if err != nil {
			return err
		}
		return a.cart.Add(cart.LineItem{
			ItemID:     artwork.ID.String(),
			Title:      artwork.ArtType,
			ArtistName: artwork.ArtistName,
			UnitPrice:  artwork.Price,
			ImageURL:   artwork.Image,
		})

	case "qty":
		if len(args) != 3 {
			return fmt.Errorf("usage: cart qty <artwork-id> <quantity>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("quantity must be a number: %w", err)
		}
		a.cart.SetQuantity(args[1], quantity)
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: cart remove <artwork-id>")
		}
		a.cart.Remove(args[1])
		return nil

	case "show":
		items := a.cart.Items()
		if len(items) == 0 {
			fmt.Fprintln(a.out, "cart is empty")
			return nil
		}
		w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tARTIST\tQTY\tPRICE")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				item.ItemID, item.Title, item.ArtistName, item.Quantity, item.UnitPrice.StringFixed(2))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "total: Rs. %s\n", a.cart.Total().StringFixed(2))
		return nil

	case "clear":
		a.cart.Clear()
		return nil

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "buyer name")
	address := fs.String("address", "", "delivery address")
	email := fs.String("email", "", "contact email")
	contact := fs.String("contact", "", "contact number")
	image := fs.String("slip", "", "payment slip image url")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for flagName, value := range map[string]string{
		"name": *name, "address": *address, "email": *email, "contact": *contact, "slip": *image,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("-%s is required", flagName)
		}
	}

	snapshot := a.cart.Snapshot()
	if len(snapshot.Artworks) == 0 {
		return fmt.Errorf("cart is empty")
	}

	lines := make([]apiclient.CheckoutLine, 0, len(snapshot.Artworks))
	for _, line := range snapshot.Artworks {
		lines = append(lines, apiclient.CheckoutLine{ArtworkID: line.ArtworkID, Quantity: line.Quantity})
	}

	payment, err := a.client.CreatePayment(ctx, apiclient.CheckoutRequest{
		Name:          *name,
		Address:       *address,
		Email:         *email,
		ContactNumber: *contact,
		Image:         *image,
		TotalAmount:   snapshot.TotalAmount,
		Artworks:      lines,
	})
	if err != nil {
		return err
	}

	a.cart.Clear()
	fmt.Fprintf(a.out, "payment %s submitted (%s), total Rs. %s\n",
		payment.ID, payment.PaymentStatus, payment.TotalAmount.StringFixed(2))
	return nil
}

func (a *app) printArtworks(artworks []models.Artwork) {
	if len(artworks) == 0 {
		fmt.Fprintln(a.out, "no artworks")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tARTIST\tPRICE\tLIKES\tVIEWS")
	for _, artwork := range artworks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
			artwork.ID, artwork.ArtType, artwork.ArtistName,
			artwork.Price.StringFixed(2), artwork.Likes, artwork.Views)
	}
	_ = w.Flush()
}
