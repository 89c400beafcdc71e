// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/cropguard/models"
)

func parseIDArg(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}

func pageFlags(cmd *cobra.Command, page *models.PageRequest) {
	cmd.Flags().IntVar(&page.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&page.PageSize, "page-size", 20, "page size")
}

// printPage renders a page as a table followed by a count line.
func printPage[T any](c *cli, page models.Page[T], header []string, row func(T) []string) error {
	return c.print(page, func(w io.Writer) error {
		rows := make([][]string, 0, len(page.Results))
		for _, item := range page.Results {
			rows = append(rows, row(item))
		}
		if err := table(w, header, rows); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%d total\n", page.Count)
		return err
	})
}

func printList[T any](c *cli, items []T, header []string, row func(T) []string) error {
	return c.print(items, func(w io.Writer) error {
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, row(item))
		}
		return table(w, header, rows)
	})
}

func id(v int64) string      { return strconv.FormatInt(v, 10) }
func float(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

var (
	farmHeader      = []string{"ID", "NAME", "CROP", "AREA", "REGION"}
	detectionHeader = []string{"ID", "FARM", "DISEASE", "SEVERITY", "CONFIDENCE"}
	weatherHeader   = []string{"ID", "FARM", "TEMP", "HUMIDITY", "RAIN", "CONDITION"}
	alertHeader     = []string{"ID", "FARM", "TYPE", "TITLE", "READ"}
	priceHeader     = []string{"ID", "CROP", "MARKET", "PRICE", "CHANGE %"}
	recommendHeader = []string{"ID", "FARM", "PRIORITY", "TITLE", "APPLIED"}
)

func farmRow(f models.Farm) []string {
	return []string{id(f.ID), f.Name, f.CropType, f.AreaName, f.Region}
}

func detectionRow(d models.Detection) []string {
	return []string{id(d.ID), id(d.Farm), d.DetectedDisease, d.Severity, float(d.ConfidenceScore)}
}

func weatherRow(w models.Weather) []string {
	return []string{id(w.ID), id(w.Farm), float(w.Temperature), float(w.Humidity), float(w.Rainfall), w.Condition}
}

func alertRow(a models.Alert) []string {
	return []string{id(a.ID), id(a.Farm), a.AlertType, a.Title, yesNo(a.IsRead)}
}

func priceRow(p models.MarketPrice) []string {
	return []string{id(p.ID), p.Crop, p.Market, float(p.Price), float(p.ChangePct)}
}

func recommendRow(r models.Recommendation) []string {
	return []string{id(r.ID), id(r.Farm), r.Priority, r.Title, yesNo(r.IsApplied)}
}

func newFarmsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "farms", Short: "Manage farms"}

	var (
		page           models.PageRequest
		search, region string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List farms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				res models.Page[models.Farm]
				err error
			)
			switch {
			case search != "":
				res, err = c.app.Services.Crops.SearchFarms(cmd.Context(), search)
			case region != "":
				res, err = c.app.Services.Crops.FarmsByRegion(cmd.Context(), region)
			default:
				res, err = c.app.Services.Crops.ListFarms(cmd.Context(), page)
			}
			if err != nil {
				return err
			}
			return printPage(c, res, farmHeader, farmRow)
		},
	}
	pageFlags(list, &page)
	list.Flags().StringVar(&search, "search", "", "full-text search")
	list.Flags().StringVar(&region, "region", "", "filter by region")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			f, err := c.app.Services.Crops.GetFarm(cmd.Context(), farmID)
			if err != nil {
				return err
			}
			return printList(c, []models.Farm{f}, farmHeader, farmRow)
		},
	}

	var farm models.Farm
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a farm",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := c.app.Services.Crops.CreateFarm(cmd.Context(), farm)
			if err != nil {
				return err
			}
			return printList(c, []models.Farm{f}, farmHeader, farmRow)
		},
	}
	create.Flags().StringVar(&farm.Name, "name", "", "farm name")
	create.Flags().StringVar(&farm.CropType, "crop", "", "crop type")
	create.Flags().StringVar(&farm.AreaName, "area", "", "area name")
	create.Flags().StringVar(&farm.Region, "region", "", "region")
	create.Flags().Float64Var(&farm.Latitude, "lat", 0, "latitude")
	create.Flags().Float64Var(&farm.Longitude, "lon", 0, "longitude")
	create.Flags().Float64Var(&farm.FarmSizeAcres, "acres", 0, "farm size in acres")
	_ = create.MarkFlagRequired("name")

	var rename string
	update := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			f, err := c.app.Services.Crops.UpdateFarm(cmd.Context(), farmID, map[string]any{"name": rename})
			if err != nil {
				return err
			}
			return printList(c, []models.Farm{f}, farmHeader, farmRow)
		},
	}
	update.Flags().StringVar(&rename, "name", "", "new name")
	_ = update.MarkFlagRequired("name")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err = c.app.Services.Crops.DeleteFarm(cmd.Context(), farmID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Farm %d deleted\n", farmID)
			return nil
		},
	}

	weather := &cobra.Command{
		Use:   "weather <id>",
		Short: "Show weather observations for a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			ws, err := c.app.Services.Crops.FarmWeather(cmd.Context(), farmID)
			if err != nil {
				return err
			}
			return printList(c, ws, weatherHeader, weatherRow)
		},
	}

	recent := &cobra.Command{
		Use:   "detections <id>",
		Short: "Show recent detections for a farm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			farmID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			ds, err := c.app.Services.Crops.RecentDetections(cmd.Context(), farmID)
			if err != nil {
				return err
			}
			return printList(c, ds, detectionHeader, detectionRow)
		},
	}

	cmd.AddCommand(list, get, create, update, del, weather, recent)
	return cmd
}

func newDetectionsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "detections", Short: "Browse disease detections"}

	var (
		page    models.PageRequest
		disease string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List detections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				res models.Page[models.Detection]
				err error
			)
			if disease != "" {
				res, err = c.app.Services.Crops.FilterDetections(cmd.Context(), disease)
			} else {
				res, err = c.app.Services.Crops.ListDetections(cmd.Context(), page)
			}
			if err != nil {
				return err
			}
			return printPage(c, res, detectionHeader, detectionRow)
		},
	}
	pageFlags(list, &page)
	list.Flags().StringVar(&disease, "disease", "", "filter by detected disease")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			d, err := c.app.Services.Crops.GetDetection(cmd.Context(), detID)
			if err != nil {
				return err
			}
			return printList(c, []models.Detection{d}, detectionHeader, detectionRow)
		},
	}

	var det models.Detection
	create := &cobra.Command{
		Use:   "create",
		Short: "Record a detection for an uploaded image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := c.app.Services.Crops.CreateDetection(cmd.Context(), det)
			if err != nil {
				return err
			}
			return printList(c, []models.Detection{d}, detectionHeader, detectionRow)
		},
	}
	create.Flags().Int64Var(&det.Farm, "farm", 0, "farm id")
	create.Flags().StringVar(&det.ImageKey, "image-key", "", "storage key of the uploaded image")
	create.Flags().StringVar(&det.DetectedDisease, "disease", "", "detected disease")
	create.Flags().StringVar(&det.Severity, "severity", "", "severity")
	create.Flags().StringVar(&det.Notes, "notes", "", "notes")
	_ = create.MarkFlagRequired("farm")

	var wrong bool
	confirm := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm (or with --wrong, reject) a detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err = c.app.Services.Crops.ConfirmDetection(cmd.Context(), detID, !wrong); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Detection %d marked correct=%t\n", detID, !wrong)
			return nil
		},
	}
	confirm.Flags().BoolVar(&wrong, "wrong", false, "mark the detection as incorrect")

	var fb models.DetectionFeedback
	feedback := &cobra.Command{
		Use:   "feedback <id>",
		Short: "Send feedback on a detection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err = c.app.Services.Crops.DetectionFeedback(cmd.Context(), detID, fb); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Feedback sent")
			return nil
		},
	}
	feedback.Flags().IntVar(&fb.Rating, "rating", 0, "rating 1-5")
	feedback.Flags().StringVar(&fb.Comment, "comment", "", "comment")
	feedback.Flags().StringVar(&fb.ActualDisease, "actual", "", "actual disease if different")

	cmd.AddCommand(list, get, create, confirm, feedback)
	return cmd
}

func newAlertsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "alerts", Short: "Read farm alerts"}

	var page models.PageRequest
	list := &cobra.Command{
		Use:   "list",
		Short: "List alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Services.Crops.ListAlerts(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printPage(c, res, alertHeader, alertRow)
		},
	}
	pageFlags(list, &page)

	unread := &cobra.Command{
		Use:   "unread",
		Short: "List unread alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			as, err := c.app.Services.Crops.UnreadAlerts(cmd.Context())
			if err != nil {
				return err
			}
			return printList(c, as, alertHeader, alertRow)
		},
	}

	read := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark one alert, or all without an id, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := c.app.Services.Crops.MarkAllAlertsRead(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(c.out, "All alerts marked read")
				return nil
			}
			alertID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err = c.app.Services.Crops.MarkAlertRead(cmd.Context(), alertID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Alert %d marked read\n", alertID)
			return nil
		},
	}

	cmd.AddCommand(list, unread, read)
	return cmd
}

func newWeatherCmd(c *cli) *cobra.Command {
	var page models.PageRequest
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "List weather observations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Services.Crops.ListWeather(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printPage(c, res, weatherHeader, weatherRow)
		},
	}
	pageFlags(cmd, &page)
	return cmd
}

func newPricesCmd(c *cli) *cobra.Command {
	var (
		page     models.PageRequest
		trending bool
	)
	cmd := &cobra.Command{
		Use:   "prices",
		Short: "List market prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if trending {
				ps, err := c.app.Services.Crops.TrendingPrices(cmd.Context())
				if err != nil {
					return err
				}
				return printList(c, ps, priceHeader, priceRow)
			}
			res, err := c.app.Services.Crops.ListMarketPrices(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printPage(c, res, priceHeader, priceRow)
		},
	}
	pageFlags(cmd, &page)
	cmd.Flags().BoolVar(&trending, "trending", false, "show the largest movers only")
	return cmd
}

func newRecommendationsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{Use: "recommendations", Aliases: []string{"recs"}, Short: "Browse advisory recommendations"}

	var page models.PageRequest
	list := &cobra.Command{
		Use:   "list",
		Short: "List recommendations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := c.app.Services.Crops.ListRecommendations(cmd.Context(), page)
			if err != nil {
				return err
			}
			return printPage(c, res, recommendHeader, recommendRow)
		},
	}
	pageFlags(list, &page)

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one recommendation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			r, err := c.app.Services.Crops.GetRecommendation(cmd.Context(), recID)
			if err != nil {
				return err
			}
			return c.print(r, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\n\n%s\n", r.Title, r.Description)
				return err
			})
		},
	}

	apply := &cobra.Command{
		Use:   "apply <id>",
		Short: "Mark a recommendation as applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recID, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			if err = c.app.Services.Crops.ApplyRecommendation(cmd.Context(), recID); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "Recommendation %d applied\n", recID)
			return nil
		},
	}

	cmd.AddCommand(list, get, apply)
	return cmd
}
