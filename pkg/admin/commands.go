/*
 * Copyright 2024 The Venuemaps Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/wepmaps/venuemaps/pkg/editor"
	"github.com/wepmaps/venuemaps/pkg/venue"
)

type command struct {
	args    string
	help    string
	minArgs int
	run     func(ctx context.Context, a *App, args []string) error
}

var commands = map[string]command{
	"status": {help: "shows the dataset and any recoverable draft", run: status},
	"login":  {help: "verifies the configured admin password", run: login},
	"logout": {help: "ends the Data API session", run: logout},
	"publish": {help: "publishes the recoverable draft and regenerates the pages",
		run: publish},
	"decline":         {help: "deletes the recoverable draft", run: decline},
	"discard":         {help: "deletes the draft and reloads the dataset", run: discard},
	"add-category":    {args: "<name>", minArgs: 1, help: "creates a category", run: addCategory},
	"delete-category": {args: "<id>", minArgs: 1, help: "deletes a category", run: deleteCategory},
	"toggle-card":     {args: "<id>", minArgs: 1, help: "shows or hides a landing page card", run: toggleCard},
	"upload":          {args: "<file>", minArgs: 1, help: "uploads a location image", run: upload},
	"upload-map":      {args: "<file>", minArgs: 1, help: "uploads a map image", run: uploadMap},
	"photos":          {help: "lists pending photo requests", run: photos},
	"approve-photo":   {args: "<id>", minArgs: 1, help: "approves a photo request", run: approvePhoto},
	"dismiss-photo":   {args: "<id>", minArgs: 1, help: "dismisses a photo request", run: dismissPhoto},
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "\nVenueadmin Usage:\n\n venueadmin [-config path] [-origin-url url] [-env-file path] <command> [args]")
	fmt.Fprintln(w, "\nCommands:")
	names := make([]string, 0, len(commands))
	for k := range commands {
		names = append(names, k)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, n := range names {
		c := commands[n]
		fmt.Fprintf(tw, "  %s %s\t%s\n", n, c.args, c.help)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func status(ctx context.Context, a *App, _ []string) error {
	if d, ok := a.Drafts.CheckForRecovery(); ok {
		fmt.Fprintf(a.out, "draft: saved %s (%s ago)\n",
			d.Timestamp.Format("2006-01-02 15:04:05"),
			d.Age(time.Now()).Truncate(time.Second))
		describe(a.out, d.Data)
	} else {
		fmt.Fprintln(a.out, "draft: none")
	}
	if err := a.login(ctx); err != nil {
		return err
	}
	if err := a.Drafts.Load(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "published:")
	describe(a.out, a.Drafts.Dataset())
	return nil
}

func describe(w io.Writer, ds venue.Dataset) {
	var maps, locations int
	for _, v := range ds.Venues {
		maps += len(v.Maps)
		for _, m := range v.Maps {
			locations += len(m.Locations)
		}
	}
	fmt.Fprintf(w, "  %d categories, %d venues, %d maps, %d locations, %d cards\n",
		len(ds.Categories), len(ds.Venues), maps, locations, len(ds.LandingPage.Cards))
}

func login(ctx context.Context, a *App, _ []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged in")
	return nil
}

func logout(ctx context.Context, a *App, _ []string) error {
	if err := a.API.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "logged out")
	return nil
}

func publish(ctx context.Context, a *App, _ []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	resumed, err := a.resume(ctx)
	if err != nil {
		return err
	}
	if !resumed {
		fmt.Fprintln(a.out, "no draft; republishing the current dataset")
	}
	files, err := a.Drafts.Publish(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "published; generated %d files\n", len(files))
	for _, f := range files {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	return nil
}

func decline(_ context.Context, a *App, _ []string) error {
	if _, ok := a.Drafts.CheckForRecovery(); !ok {
		fmt.Fprintln(a.out, "no draft")
		return nil
	}
	a.Drafts.Decline()
	fmt.Fprintln(a.out, "draft deleted")
	return nil
}

func discard(ctx context.Context, a *App, _ []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	if err := a.Drafts.Discard(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "draft discarded")
	describe(a.out, a.Drafts.Dataset())
	return nil
}

// edit applies one action on top of the resumed draft
func edit(ctx context.Context, a *App, act editor.Action) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	if _, err := a.resume(ctx); err != nil {
		return err
	}
	if err := a.Editor.Apply(ctx, act); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "saved to draft; run publish to regenerate the pages")
	return nil
}

func addCategory(ctx context.Context, a *App, args []string) error {
	return edit(ctx, a, editor.SaveCategory{Category: venue.Category{Name: args[0]}})
}

func deleteCategory(ctx context.Context, a *App, args []string) error {
	return edit(ctx, a, editor.DeleteCategory{ID: args[0]})
}

func toggleCard(ctx context.Context, a *App, args []string) error {
	return edit(ctx, a, editor.ToggleCardVisibility{CardID: args[0]})
}

func upload(ctx context.Context, a *App, args []string) error {
	return sendFile(ctx, a, args[0], a.API.Upload)
}

func uploadMap(ctx context.Context, a *App, args []string) error {
	return sendFile(ctx, a, args[0], a.API.UploadMap)
}

func sendFile(ctx context.Context, a *App, name string,
	send func(context.Context, string, io.Reader) (string, error)) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	path, err := send(ctx, filepath.Base(name), f)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func photos(ctx context.Context, a *App, _ []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	reqs, err := a.API.PhotoRequests(ctx)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(a.out, "no photo requests")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVENUE\tMAP\tLOCATION\tREQUESTED")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.VenueName, r.MapLabel,
			r.LocationName, r.RequestedAt.Format("2006-01-02"))
	}
	return tw.Flush()
}

func approvePhoto(ctx context.Context, a *App, args []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	if err := a.API.ApprovePhotoRequest(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "approved")
	return nil
}

func dismissPhoto(ctx context.Context, a *App, args []string) error {
	if err := a.login(ctx); err != nil {
		return err
	}
	if err := a.API.DismissPhotoRequest(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "dismissed")
	return nil
}
