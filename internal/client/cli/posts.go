package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/voices/internal/client/services"
	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

// List prints the current listing.
func (a *App) List(ctx context.Context) error {
	category := "all"
	if c := a.board.Category(); c != nil {
		category = string(*c)
	}
	a.println(fmt.Sprintf("Sort: %s | Category: %s", a.board.Sort(), category))

	posts := a.board.Posts()
	if len(posts) == 0 {
		a.println("No proposals yet.")
		return nil
	}

	viewer, _ := a.authService.Account()
	for _, p := range posts {
		a.println(renderPost(p, viewer.ID))
	}
	return nil
}

func (a *App) Sort(ctx context.Context, order string) error {
	sort, err := models.ParseSortOrder(order)
	if err != nil {
		a.println("Unknown sort order, use newest or votes")
		return err
	}
	if err := a.board.SetSort(ctx, sort); err != nil {
		return a.fail(ctx, err)
	}
	return a.List(ctx)
}

func (a *App) Filter(ctx context.Context, category string) error {
	var filter *models.Category
	if !strings.EqualFold(category, "all") {
		c, ok := matchCategory(category)
		if !ok {
			a.println("Unknown category, use one of:", categoryNames(), "or all")
			return fmt.Errorf("%w: unknown category %q", common.ErrorValidation, category)
		}
		filter = &c
	}
	if err := a.board.SetCategory(ctx, filter); err != nil {
		return a.fail(ctx, err)
	}
	return a.List(ctx)
}

func (a *App) Vote(ctx context.Context, id string, delta votes.Vote) error {
	p, err := a.board.Vote(ctx, id, delta)
	if err != nil {
		return a.fail(ctx, err)
	}
	viewer, _ := a.authService.Account()
	a.println(renderPost(p, viewer.ID))
	return nil
}

// Submit prompts for a new proposal and sends it.
func (a *App) Submit(ctx context.Context) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	problem, err := getSimpleText(a.reader, "What is the problem?", a.out)
	if err != nil {
		return err
	}
	solution, err := GetMultiline(a.reader, "What would solve it?", a.out)
	if err != nil {
		return err
	}
	category, err := a.askCategory(models.CategoryOther)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.reader, "Address (optional)", a.out)
	if err != nil {
		return err
	}
	location, err := a.askLocation("Location as lat,lng (optional)")
	if err != nil {
		return err
	}

	np := models.NewPost{
		Problem:  problem,
		Solution: solution,
		Category: category,
		Address:  models.NormalizeAddress(address),
		Location: location,
	}
	if err := models.ValidateContent(np.Problem, np.Solution, np.Category); err != nil {
		a.println("Error:", err)
		return err
	}

	p, err := a.board.Create(ctx, np)
	if err != nil && p == nil {
		return a.fail(ctx, err)
	}
	a.println("Proposal submitted:", p.ID)
	if err != nil {
		a.println("Warning:", err)
	}
	return a.List(ctx)
}

// Edit prompts for new values of the user's own proposal. Enter keeps a
// value, "-" removes an optional one.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}
	p, ok := a.board.Post(id)
	if !ok {
		a.println("No such proposal:", id)
		return common.ErrorNotFound
	}

	problem, err := getSimpleText(a.reader, fmt.Sprintf("Problem [%s]", p.Problem), a.out)
	if err != nil {
		return err
	}
	solution, err := getSimpleText(a.reader, fmt.Sprintf("Solution [%s]", p.Solution), a.out)
	if err != nil {
		return err
	}
	category, err := a.askCategory(p.Category)
	if err != nil {
		return err
	}
	address, err := getSimpleText(a.reader, fmt.Sprintf("Address [%s] (Enter keeps, - removes)", p.Address), a.out)
	if err != nil {
		return err
	}
	location, err := getSimpleText(a.reader, fmt.Sprintf("Location [%s] (lat,lng; Enter keeps, - removes)", formatLocation(p.Location)), a.out)
	if err != nil {
		return err
	}

	u := models.PostUpdate{
		Problem:  orDefault(problem, p.Problem),
		Solution: orDefault(solution, p.Solution),
		Category: category,
	}
	switch address {
	case "":
	case "-":
		u.Address = models.Clear[string]()
	default:
		u.Address = models.Set(address)
	}
	switch location {
	case "":
	case "-":
		u.Location = models.Clear[models.Location]()
	default:
		loc, err := parseLocation(location)
		if err != nil {
			a.println("Error:", err)
			return err
		}
		u.Location = models.Set(*loc)
	}

	updated, err := a.board.Edit(ctx, id, u)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.println(renderPost(updated, p.AuthorID))
	return nil
}

// Delete removes the user's own proposal after confirmation.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.requireLogin(ctx); err != nil {
		return err
	}

	answer, err := getSimpleText(a.reader, "Are you sure you want to delete this post? This action cannot be undone. (y/N)", a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		a.println("Cancelled")
		return nil
	}

	if err := a.board.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Deleted", id)
	return nil
}

// fail reports err to the user and returns it.
func (a *App) fail(ctx context.Context, err error) error {
	var alert *services.AlertError

	switch {
	case errors.Is(err, services.ErrAuthRequired):
		a.println("Please log in first.")
		_ = a.Login(ctx)
	case errors.As(err, &alert):
		a.println(alert.Message)
		if errors.Is(err, common.ErrorUnauthenticated) {
			a.println("Your session is no longer valid, please log in again.")
		}
	case errors.Is(err, services.ErrPostBusy):
		a.println("That proposal still has a change pending, try again in a moment.")
	case errors.Is(err, common.ErrorUnauthorized):
		a.println("Only the author can change this proposal.")
	case errors.Is(err, common.ErrorNotFound):
		a.println("No such proposal.")
	default:
		a.println("Error:", err)
	}
	return err
}

func (a *App) askCategory(current models.Category) (models.Category, error) {
	for {
		s, err := getSimpleText(a.reader, fmt.Sprintf("Category %s [%s]", categoryNames(), current), a.out)
		if err != nil {
			return "", err
		}
		if s == "" {
			return current, nil
		}
		if c, ok := matchCategory(s); ok {
			return c, nil
		}
		a.println("Unknown category:", s)
	}
}

func (a *App) askLocation(prompt string) (*models.Location, error) {
	for {
		s, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		loc, err := parseLocation(s)
		if err == nil {
			return loc, nil
		}
		a.println("Error:", err)
	}
}

func matchCategory(s string) (models.Category, bool) {
	for _, c := range models.Categories {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

func categoryNames() string {
	names := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, "/")
}

// parseLocation reads "lat,lng" in decimal degrees.
func parseLocation(s string) (*models.Location, error) {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("%w: location must be lat,lng", common.ErrorValidation)
	}
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil || la < -90 || la > 90 {
		return nil, fmt.Errorf("%w: bad latitude %q", common.ErrorValidation, lat)
	}
	ln, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	if err != nil || ln < -180 || ln > 180 {
		return nil, fmt.Errorf("%w: bad longitude %q", common.ErrorValidation, lng)
	}
	return &models.Location{Lat: la, Lng: ln}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
