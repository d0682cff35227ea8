// Консольная утилита вокруг API расписания: справочники, разовый просмотр
// и массовая выгрузка в Postgres/JSON.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vlsu-bot/api/internal/calendar"
	"vlsu-bot/api/internal/harvest"
	"vlsu-bot/api/internal/store"
	"vlsu-bot/api/internal/vlsu"
)

var reHexID = regexp.MustCompile(`^[0-9a-f]{32}$`)

func isHexID(s string) bool {
	return reHexID.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(data))
}

// resolveInstitute принимает GUID либо подстроку названия.
func resolveInstitute(ctx context.Context, api *vlsu.Client, arg string) (string, error) {
	if isHexID(arg) {
		return arg, nil
	}
	id, err := api.FindInstituteID(ctx, arg)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("институт не найден по: %s", arg)
	}
	return id, nil
}

func main() {
	_ = godotenv.Load()

	var baseURL string

	root := &cobra.Command{
		Use:           "vlsu",
		Short:         "Расписание ВлГУ: справочники, просмотр, массовая выгрузка",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", "", "адрес API (по умолчанию боевой)")

	api := func() *vlsu.Client { return vlsu.New(baseURL) }

	// ---- institutes ----
	root.AddCommand(&cobra.Command{
		Use:   "institutes",
		Short: "Показать все институты",
		RunE: func(cmd *cobra.Command, args []string) error {
			insts, err := api().GetInstitutes(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(insts)
			fmt.Printf("Всего институтов: %d\n", len(insts))
			return nil
		},
	})

	// ---- groups ----
	{
		var institute string
		var form int
		cmd := &cobra.Command{
			Use:   "groups",
			Short: "Показать группы института",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				instID, err := resolveInstitute(ctx, api(), institute)
				if err != nil {
					return err
				}
				gs, err := api().GetGroups(ctx, instID, form)
				if err != nil {
					return err
				}
				if len(gs) == 0 {
					fmt.Println("Группы не найдены (проверь форму обучения).")
					return nil
				}
				printJSON(gs)
				fmt.Printf("Всего групп: %d\n", len(gs))
				return nil
			},
		}
		cmd.Flags().StringVarP(&institute, "institute", "i", "", "название или GUID института")
		cmd.Flags().IntVarP(&form, "form", "f", 0, "0 очная, 1 заочная, 2 очно-заочная")
		_ = cmd.MarkFlagRequired("institute")
		root.AddCommand(cmd)
	}

	// ---- schedule ----
	{
		var (
			institute, group string
			form, week       int
			raw, now         bool
		)
		cmd := &cobra.Command{
			Use:   "schedule",
			Short: "Показать расписание группы",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				instID, err := resolveInstitute(ctx, api(), institute)
				if err != nil {
					return err
				}
				gs, err := api().GetGroups(ctx, instID, form)
				if err != nil {
					return err
				}
				g, ok := vlsu.FindGroup(gs, group)
				if !ok {
					return fmt.Errorf("группа не найдена: %s", group)
				}
				if now {
					cur, err := api().GetGroupCurrentInfo(ctx, g.ID)
					if err != nil {
						return err
					}
					fmt.Println("CURRENT:", string(cur))
				}
				weekType := 0
				if week > 0 {
					weekType = week
				}
				if raw {
					data, err := api().GetScheduleRaw(ctx, g.ID, weekType, "")
					if err != nil {
						return err
					}
					fmt.Println(string(data))
				} else {
					lessons, err := api().GetSchedule(ctx, g.ID, weekType)
					if err != nil {
						return err
					}
					printJSON(lessons)
				}
				fmt.Printf("OK: %s (%s)\n", g.Name, g.ID)
				return nil
			},
		}
		cmd.Flags().StringVarP(&institute, "institute", "i", "", "название или GUID института")
		cmd.Flags().StringVarP(&group, "group", "g", "", "название группы, напр. «КП-125»")
		cmd.Flags().IntVarP(&form, "form", "f", 0, "форма обучения")
		cmd.Flags().IntVarP(&week, "week", "w", -1, "-1 все, 1 числитель, 2 знаменатель")
		cmd.Flags().BoolVar(&raw, "raw", false, "вывести как вернул API, без нормализации")
		cmd.Flags().BoolVar(&now, "now", false, "дополнительно вывести «сейчас/следующая»")
		_ = cmd.MarkFlagRequired("institute")
		_ = cmd.MarkFlagRequired("group")
		root.AddCommand(cmd)
	}

	// ---- status ----
	{
		var calendarFile string
		cmd := &cobra.Command{
			Use:   "status [дата]",
			Short: "Режим учебного календаря для даты (по умолчанию сегодня)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cal := calendar.Default()
				if calendarFile != "" {
					var err error
					if cal, err = calendar.Load(calendarFile); err != nil {
						return err
					}
				}
				d := time.Now()
				if len(args) == 1 {
					var err error
					if d, err = time.Parse("2006-01-02", args[0]); err != nil {
						return fmt.Errorf("дата должна быть в формате YYYY-MM-DD: %w", err)
					}
				}
				fmt.Printf("%s: %s\n", d.Format("2006-01-02"), cal.Resolve(d))
				return nil
			},
		}
		cmd.Flags().StringVar(&calendarFile, "calendar", "", "YAML учебного календаря")
		root.AddCommand(cmd)
	}

	// ---- harvest ----
	{
		var (
			dsn, onlyInstitute, outDir, forms string
			pause                             time.Duration
		)
		cmd := &cobra.Command{
			Use:   "harvest",
			Short: "Спарсить все институты и группы в Postgres (и, опционально, JSON)",
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if dsn == "" {
					dsn = os.Getenv("DATABASE_URL")
				}
				if dsn == "" {
					return fmt.Errorf("не задан DSN: --db или DATABASE_URL")
				}
				db, err := sql.Open("pgx", dsn)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := store.InitSchema(ctx, db); err != nil {
					return err
				}

				h := &harvest.Harvester{
					API:           api(),
					Groups:        store.NewGroupRepo(db),
					Lessons:       store.NewLessonRepo(db),
					Forms:         harvest.ParseForms(forms),
					OnlyInstitute: onlyInstitute,
					Pause:         pause,
					OutDir:        outDir,
				}
				st, err := h.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("ГОТОВО: институтов %d, групп %d, пар ~%d\n", st.Institutes, st.Groups, st.Lessons)
				return nil
			},
		}
		cmd.Flags().StringVar(&dsn, "db", "", "Postgres DSN (по умолчанию DATABASE_URL)")
		cmd.Flags().StringVar(&onlyInstitute, "only-institute", "", "GUID института для выборочного обновления")
		cmd.Flags().StringVar(&outDir, "outdir", "", "папка для JSON-выгрузок (пусто — не писать)")
		cmd.Flags().StringVar(&forms, "forms", "0", "формы обучения через запятую: 0,1,2")
		cmd.Flags().DurationVar(&pause, "pause", 200*time.Millisecond, "пауза между группами")
		root.AddCommand(cmd)
	}

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
