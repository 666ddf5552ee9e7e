package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"TopicBridge/internal/domain"
	"TopicBridge/internal/session"
	"TopicBridge/internal/usecase"
)

const prompt = "topicbridge> "

var errQuit = errors.New("quit")

type command struct {
	usage string
	run   func(ctx context.Context, args string) error
}

// console is a line-oriented front end over the session.
type console struct {
	app      *Application
	in       io.Reader
	out      io.Writer
	commands map[string]command
	order    []string
}

func newConsole(a *Application, in io.Reader, out io.Writer) *console {
	c := &console{app: a, in: in, out: out, commands: map[string]command{}}
	c.register("search", "search <query>   analyze a topic", c.search)
	c.register("open", "open <id>        view a topic from the list, favorites or history", c.open)
	c.register("fav", "fav <id>         toggle favorite", c.favorite)
	c.register("back", "back             return home", c.back)
	c.register("topics", "topics           list topics", c.topics)
	c.register("favorites", "favorites [term] list or filter favorites", c.favorites)
	c.register("history", "history          reading log", c.history)
	c.register("report", "report           cocoon report", c.report)
	c.register("refresh", "refresh          sync pending updates", c.refresh)
	c.register("status", "status           session and update state", c.status)
	c.register("profile", "profile [field value] show or edit age, occupation, education, language", c.profile)
	c.register("upgrade", "upgrade          switch to Pro", c.upgrade)
	c.register("incentives", "incentives       progress toward a free upgrade", c.incentives)
	c.register("events", "events           recent journal entries", c.events)
	c.register("help", "help             this list", c.help)
	c.register("quit", "quit             leave", func(context.Context, string) error { return errQuit })
	return c
}

func (c *console) register(name, usage string, run func(context.Context, string) error) {
	c.commands[name] = command{usage: usage, run: run}
	c.order = append(c.order, name)
}

func (c *console) run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprint(c.out, prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := c.dispatch(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
			fmt.Fprint(c.out, prompt)
		}
	}
}

func (c *console) dispatch(ctx context.Context, line string) error {
	name, args, _ := strings.Cut(strings.TrimSpace(line), " ")
	if name == "" {
		return nil
	}
	cmd, ok := c.commands[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown command %q, try help", name)
	}
	return cmd.run(ctx, strings.TrimSpace(args))
}

func (c *console) search(ctx context.Context, query string) error {
	rec, err := c.app.synthesis.Submit(ctx, query)
	switch {
	case errors.Is(err, usecase.ErrEmptyQuery):
		return err
	case errors.Is(err, usecase.ErrSynthesisFailed):
		fmt.Fprintln(c.out, c.app.session.Snapshot().SearchError)
		c.app.session.DismissError()
		return nil
	case err != nil:
		return err
	}
	c.printRecord(rec, false)
	fmt.Fprintln(c.out, "(deep analysis is loading in the background)")
	return nil
}

func (c *console) open(_ context.Context, id string) error {
	rec, err := c.app.session.Open(id)
	if errors.Is(err, session.ErrUnknownRecord) {
		fmt.Fprintf(c.out, "no topic with id %q\n", id)
		return nil
	}
	if err != nil {
		return err
	}
	c.printRecord(rec, c.app.session.Snapshot().ActiveIsFav)
	return nil
}

func (c *console) favorite(_ context.Context, id string) error {
	if id == "" {
		if active := c.app.session.Snapshot().Active; active != nil {
			id = active.ID
		}
	}
	on, err := c.app.session.ToggleFavorite(id)
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintf(c.out, "added %s to favorites\n", id)
	} else {
		fmt.Fprintf(c.out, "removed %s from favorites\n", id)
	}
	return nil
}

func (c *console) back(context.Context, string) error {
	c.app.session.Back()
	return nil
}

func (c *console) topics(context.Context, string) error {
	c.printList(c.app.session.Topics())
	return nil
}

func (c *console) favorites(_ context.Context, term string) error {
	c.printList(c.app.session.SearchFavorites(term))
	return nil
}

func (c *console) history(context.Context, string) error {
	c.printList(c.app.session.History())
	return nil
}

func (c *console) report(context.Context, string) error {
	r := c.app.session.Report()

	fmt.Fprintf(c.out, "reads: %d  cocoon score: %d  level: %s\n", r.TotalReads, r.CocoonScore, r.DiversityLevel)
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, s := range r.RadarData {
		fmt.Fprintf(w, "  %s\t%d/%d\n", s.Subject, s.Score, s.FullMark)
	}
	_ = w.Flush()

	if len(r.BlindSpots) > 0 {
		spots := make([]string, 0, len(r.BlindSpots))
		for _, b := range r.BlindSpots {
			spots = append(spots, string(b))
		}
		fmt.Fprintf(c.out, "blind spots: %s\n", strings.Join(spots, ", "))
	}
	if r.RecommendedTopic != nil {
		fmt.Fprintf(c.out, "try something in: %s\n", *r.RecommendedTopic)
	}
	fmt.Fprintln(c.out, r.TrendInsights.UserFocusSummary)
	fmt.Fprintln(c.out, r.TrendInsights.GlobalSummary)
	return nil
}

func (c *console) refresh(ctx context.Context, _ string) error {
	fmt.Fprintln(c.out, "syncing...")
	select {
	case <-c.app.updates.Refresh():
	case <-ctx.Done():
		return ctx.Err()
	}
	fmt.Fprintf(c.out, "synced at %s\n", c.app.session.Snapshot().Updates.LastSynced.Format(time.Kitchen))
	return nil
}

func (c *console) status(context.Context, string) error {
	s := c.app.session.Snapshot()
	fmt.Fprintf(c.out, "view: %s  reads: %d  favorites: %d  synthesis: %s\n",
		s.View, s.Reads, s.Favorites, c.app.synthesis.Current())
	if s.Active != nil {
		fmt.Fprintf(c.out, "active: [%s] %s\n", s.Active.ID, s.Active.Title)
	}
	if s.Updates.Pending > 0 {
		fmt.Fprintf(c.out, "%d new updates available, run refresh\n", s.Updates.Pending)
	}
	fmt.Fprintf(c.out, "last synced: %s\n", s.Updates.LastSynced.Format(time.Kitchen))
	return nil
}

func (c *console) profile(_ context.Context, args string) error {
	p := c.app.session.Profile()
	if args != "" {
		field, value, _ := strings.Cut(args, " ")
		value = strings.TrimSpace(value)
		switch strings.ToLower(field) {
		case "age":
			p.Age = value
		case "occupation":
			p.Occupation = value
		case "education":
			p.Education = value
		case "language":
			p.Language = strings.ToLower(value)
		default:
			return fmt.Errorf("unknown profile field %q", field)
		}
		c.app.session.UpdateProfile(p)
	} else {
		c.app.session.ShowProfile()
	}

	fmt.Fprintf(c.out, "age: %s  occupation: %s  education: %s  language: %s  membership: %s\n",
		p.Age, p.Occupation, p.Education, p.Language, p.Membership)
	return nil
}

func (c *console) upgrade(context.Context, string) error {
	c.app.session.UpgradeMembership()
	fmt.Fprintln(c.out, "membership: Pro")
	return nil
}

func (c *console) incentives(context.Context, string) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, g := range c.app.session.IncentiveProgress() {
		mark := ""
		if g.Complete {
			mark = "done"
		}
		fmt.Fprintf(w, "  %s\t%d/%d\t%d%%\t%s\n", g.Name, g.Current, g.Target, g.Percent, mark)
	}
	return w.Flush()
}

func (c *console) events(ctx context.Context, _ string) error {
	events, err := c.app.RecentEvents(ctx, 10)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintf(c.out, "%s  %-17s %s %q %s\n", ev.OccurredAt.Format(time.RFC3339), ev.Kind, ev.RecordID, ev.Query, ev.Error)
	}
	return nil
}

func (c *console) help(context.Context, string) error {
	for _, name := range c.order {
		fmt.Fprintln(c.out, "  "+c.commands[name].usage)
	}
	return nil
}

func (c *console) printList(records []domain.Record) {
	if len(records) == 0 {
		fmt.Fprintln(c.out, "(none)")
		return
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	for _, rec := range records {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", rec.ID, rec.Category, rec.Title)
	}
	_ = w.Flush()
}

func (c *console) printRecord(rec domain.Record, favorite bool) {
	star := ""
	if favorite {
		star = " *"
	}
	fmt.Fprintf(c.out, "[%s] %s (%s)%s\n", rec.ID, rec.Title, rec.Category, star)
	if rec.Summary != "" {
		fmt.Fprintln(c.out, rec.Summary)
	}
	if rec.WhyMatters != "" {
		fmt.Fprintf(c.out, "why it matters: %s\n", rec.WhyMatters)
	}
	for _, f := range rec.Facts {
		fmt.Fprintf(c.out, "  - %s (%s)\n", f.Content, f.Confidence)
	}
	if rec.PerspectiveSummary != "" {
		fmt.Fprintf(c.out, "perspectives: %s\n", rec.PerspectiveSummary)
	}
}
