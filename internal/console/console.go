// Package console is the line-oriented front end of the storefront client.
// Each input line is one UI event; it runs to completion before the next
// line is read.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	appErrors "github.com/aaravmahajanofficial/lankabuy-storefront/internal/errors"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/logging"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/notify"
	service "github.com/aaravmahajanofficial/lankabuy-storefront/internal/services"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/telemetry"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/view"
)

var (
	errUsage     = errors.New("usage")
	errAdminOnly = errors.New("this command is only available in admin mode")
	errNotListed = errors.New("product is not in the current list")
)

const invalidFormMessage = "Please fill in all required fields correctly"

type Options struct {
	Mode       view.Mode
	Currency   string
	Categories []string
	// Banner keeps the latest notice for the notice command.
	Banner *notify.Banner
}

type Services struct {
	Catalog  service.CatalogService
	Editor   service.EditorService
	Sessions service.SessionService
}

// Console draws pages and notices on out. It implements service.Display and
// notify.Sink.
type Console struct {
	out  io.Writer
	opts Options
	svc  Services

	mu       sync.Mutex
	lastPage view.Page
	// the form loaded by lookup, edited by update
	form *models.ProductForm
}

func New(out io.Writer, opts Options) *Console {
	if opts.Currency == "" {
		opts.Currency = "Rs."
	}

	return &Console{out: out, opts: opts}
}

func (c *Console) ShowPage(page view.Page) {
	c.mu.Lock()
	c.lastPage = page
	c.mu.Unlock()

	if err := view.WritePage(c.out, page, c.opts.Currency); err != nil {
		slog.Error("Failed to draw page", slog.Any("error", err))
	}
}

func (c *Console) ShowDetails(details view.Details) {
	if err := view.WriteDetails(c.out, details); err != nil {
		slog.Error("Failed to draw details", slog.Any("error", err))
	}
}

func (c *Console) ShowConfirm(prompt string) {
	fmt.Fprintf(c.out, "%s\nType 'confirm' to delete or 'cancel' to keep it.\n", prompt)
}

func (c *Console) Notify(n notify.Notice) {
	icon := "ℹ️"

	switch n.Kind {
	case notify.KindSuccess:
		icon = "✔"
	case notify.KindError:
		icon = "✖"
	}

	fmt.Fprintf(c.out, "%s %s\n", icon, n.Message)
}

// Run reads commands from in until EOF, quit, or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader, svc Services) error {
	c.svc = svc

	fmt.Fprintf(c.out, "LankaBuy %s console. Type 'help' for commands.\n", c.opts.Mode)

	if err := c.dispatch(ctx, []string{"list"}); err != nil {
		logging.LoggerFromContext(ctx).Debug("Initial load failed", slog.Any("error", err))
	}

	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprintf(c.out, "lankabuy(%s)> ", c.opts.Mode)

		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}

		if ctx.Err() != nil {
			return nil
		}

		args, err := tokenize(strings.TrimSpace(scanner.Text()))
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
			continue
		}

		if len(args) == 0 {
			continue
		}

		if name := strings.ToLower(args[0]); name == "quit" || name == "exit" {
			return nil
		}

		c.report(c.dispatch(ctx, args))
	}
}

// dispatch runs one command under its own correlation id and span.
func (c *Console) dispatch(ctx context.Context, args []string) error {
	name := strings.ToLower(args[0])

	ctx = logging.WithCorrelation(ctx, name)
	ctx, end := telemetry.StartCommand(ctx, name, logging.CorrelationID(ctx))
	defer end()

	logger := logging.LoggerFromContext(ctx)
	logger.Debug("Command received", slog.Int("args", len(args)-1))

	err := c.execute(ctx, name, args[1:])
	if err != nil {
		logger.Debug("Command finished with error", slog.Any("error", err))
	}

	return err
}

func (c *Console) execute(ctx context.Context, name string, args []string) error {
	catalog := c.svc.Catalog

	switch name {
	case "list", "reload":
		return catalog.Load(ctx)
	case "search":
		_, category := catalog.Filters()
		catalog.Search(strings.Join(args, " "), category)
	case "category":
		category := strings.Join(args, " ")
		if category == "-" {
			category = ""
		}

		term, _ := catalog.Filters()
		catalog.Search(term, category)
	case "clear":
		catalog.Search("", "")
	case "view":
		return c.cardAction(ctx, args, view.ActionViewDetails, catalog.ViewDetails)
	case "cart":
		return c.cardAction(ctx, args, view.ActionAddToCart, nil)
	case "delete":
		return c.cardAction(ctx, args, view.ActionDelete, nil)
	case "delete-id":
		return catalog.DeleteByID(ctx, strings.Join(args, " "))
	case "confirm":
		return catalog.ConfirmDelete(ctx)
	case "cancel":
		if err := catalog.CancelDelete(ctx); err != nil {
			return err
		}

		fmt.Fprintln(c.out, "Delete cancelled.")
	case "create":
		return c.create(ctx, args)
	case "lookup":
		return c.lookup(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.svc.Sessions.Logout(ctx)
	case "register":
		return c.register(ctx, args)
	case "whoami":
		return c.whoami(ctx)
	case "categories":
		for _, category := range c.opts.Categories {
			fmt.Fprintf(c.out, "  %s\n", category)
		}
	case "notice":
		c.showNotice()
	case "help":
		c.help()
	default:
		return fmt.Errorf("%w: unknown command %q, type 'help'", errUsage, name)
	}

	return nil
}

// cardAction triggers the bound action of a card on the last drawn page.
// fallback, when set, handles ids that are not on the page.
func (c *Console) cardAction(ctx context.Context, args []string, kind view.ActionKind, fallback func(context.Context, string) error) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s <productId>", errUsage, kind)
	}

	id := args[0]

	c.mu.Lock()
	page := c.lastPage
	c.mu.Unlock()

	for _, card := range page.Cards {
		if card.ProductID != id {
			continue
		}

		action, ok := card.Action(kind)
		if !ok {
			return fmt.Errorf("%w: %s is not available in %s mode", errUsage, kind, c.opts.Mode)
		}

		return action.Trigger(ctx)
	}

	if fallback != nil {
		return fallback(ctx, id)
	}

	return fmt.Errorf("%w: %s", errNotListed, id)
}

func (c *Console) create(ctx context.Context, args []string) error {
	if c.opts.Mode != view.ModeAdmin {
		return errAdminOnly
	}

	values, err := keyValues(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var form models.ProductForm
	applyForm(&form, values)

	reply, err := c.svc.Editor.Create(ctx, form)
	if err != nil {
		return err
	}

	if reply != "" {
		fmt.Fprintf(c.out, "Server: %s\n", reply)
	}

	return nil
}

func (c *Console) lookup(ctx context.Context, args []string) error {
	if c.opts.Mode != view.ModeAdmin {
		return errAdminOnly
	}

	form, err := c.svc.Editor.Lookup(ctx, strings.Join(args, " "))

	c.mu.Lock()
	c.form = form
	c.mu.Unlock()

	if err != nil {
		return err
	}

	return view.WriteForm(c.out, *form)
}

func (c *Console) update(ctx context.Context, args []string) error {
	if c.opts.Mode != view.ModeAdmin {
		return errAdminOnly
	}

	values, err := keyValues(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	c.mu.Lock()
	var form models.ProductForm
	if c.form != nil {
		form = *c.form
	}
	c.mu.Unlock()

	applyForm(&form, values)

	reply, err := c.svc.Editor.Update(ctx, form)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.form = &form
	c.mu.Unlock()

	if reply != "" {
		fmt.Fprintf(c.out, "Server: %s\n", reply)
	}

	return nil
}

func (c *Console) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: login <username|email> <password>", errUsage)
	}

	user, err := c.svc.Sessions.Login(ctx, models.LoginRequest{UsernameOrEmail: args[0], Password: args[1]})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Welcome, %s!\n", user.DisplayName())

	return nil
}

func (c *Console) register(ctx context.Context, args []string) error {
	values, err := keyValues(args)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	_, err = c.svc.Sessions.Register(ctx, models.RegisterRequest{
		Username: values["username"],
		FullName: firstOf(values, "fullname", "name"),
		Email:    values["email"],
		Password: values["password"],
	})

	return err
}

func (c *Console) whoami(ctx context.Context) error {
	status, err := c.svc.Sessions.CheckLogin(ctx)
	if err != nil {
		return err
	}

	if !status.LoggedIn {
		fmt.Fprintln(c.out, "Not logged in.")
		return nil
	}

	stored, err := c.svc.Sessions.StoredUser(ctx)
	if err == nil && stored != nil {
		fmt.Fprintf(c.out, "%s (%s) %s\n", stored.DisplayName(), status.Username, status.Role)
		return nil
	}

	fmt.Fprintf(c.out, "%s %s\n", status.Username, status.Role)

	return nil
}

func (c *Console) showNotice() {
	if c.opts.Banner == nil {
		return
	}

	notice, ok := c.opts.Banner.Current()
	if !ok {
		fmt.Fprintln(c.out, "No active notice.")
		return
	}

	fmt.Fprintf(c.out, "[%s] %s\n", notice.Kind, notice.Message)
}

// report prints what the services have not already surfaced as a notice.
func (c *Console) report(err error) {
	if err == nil {
		return
	}

	if appErr, ok := appErrors.IsAppError(err); ok {
		// the product forms report every field; the notice only says the form is invalid
		if appErr.Code == appErrors.ErrCodeValidation && appErr.Message == invalidFormMessage {
			_ = view.WriteFieldErrors(c.out, appErr.Fields)
		}

		return
	}

	switch {
	case errors.Is(err, errUsage), errors.Is(err, errAdminOnly), errors.Is(err, errNotListed),
		errors.Is(err, service.ErrAdminOnly), errors.Is(err, service.ErrBrowseOnly),
		errors.Is(err, service.ErrNoPendingDelete), errors.Is(err, service.ErrDeleteInFlight):
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
}

func (c *Console) help() {
	lines := []string{
		"list | reload              fetch the catalog",
		"search <term>              filter by id, name, category or description",
		"category <name|->          filter by category, '-' clears it",
		"clear                      drop both filters",
		"view <id>                  product details",
	}

	if c.opts.Mode == view.ModeAdmin {
		lines = append(lines,
			"delete <id>                delete a listed product (asks to confirm)",
			"delete-id <id>             delete any product by id (asks to confirm)",
			"confirm | cancel           answer a pending delete",
			"create k=v ...             add a product: id name price description category image",
			"lookup <id>                load a product for editing",
			"update k=v ...             save changes to the looked-up product",
		)
	} else {
		lines = append(lines, "cart <id>                  add a product to the cart")
	}

	lines = append(lines,
		"login <user> <password>    sign in",
		"register k=v ...           create an account: username fullName email password",
		"logout | whoami            session",
		"categories                 known categories",
		"notice                     show the active notice",
		"quit                       leave",
	)

	for _, line := range lines {
		fmt.Fprintf(c.out, "  %s\n", line)
	}
}

// applyForm copies k=v values into form. Both short names and the json
// field names are accepted.
func applyForm(form *models.ProductForm, values map[string]string) {
	for key, value := range values {
		switch key {
		case "id", "productid":
			form.ProductID = value
		case "name", "productname":
			form.Name = value
		case "price", "productprice":
			form.Price = value
		case "description", "productdescription":
			form.Description = value
		case "category", "productcategory":
			form.Category = value
		case "image", "imageurl", "productimageurl":
			form.ImageURL = value
		}
	}
}

func firstOf(values map[string]string, keys ...string) string {
	for _, key := range keys {
		if v, ok := values[key]; ok {
			return v
		}
	}

	return ""
}
