package labs

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/gym-labs/dataset"
	"github.com/zeu5/gym-labs/nn"
	"github.com/zeu5/gym-labs/util"
	"gonum.org/v1/gonum/mat"
)

type diabetesConfig struct {
	csvPath      string
	epochs       int
	batchSize    int
	testFraction float64
	standardize  bool
}

func (c *diabetesConfig) params() map[string]any {
	return map[string]any{
		"csv":           c.csvPath,
		"epochs":        c.epochs,
		"batch_size":    c.batchSize,
		"test_fraction": c.testFraction,
		"standardize":   c.standardize,
	}
}

// load reads the csv and splits it into train and test sets
func (c *diabetesConfig) load() (*dataset.Dataset, *dataset.Dataset, error) {
	ds, err := dataset.LoadCSV(c.csvPath, dataset.DiabetesLabel, dataset.DiabetesClasses)
	if err != nil {
		return nil, nil, err
	}
	train, test, err := dataset.TrainTestSplit(ds, c.testFraction, uint64(seed))
	if err != nil {
		return nil, nil, err
	}
	if c.standardize {
		scaler := dataset.FitScaler(train)
		train, test = scaler.Transform(train), scaler.Transform(test)
	}
	return train, test, nil
}

// newDiabetesModel is Dense(6) -> Dense(3) -> Dense(1, sigmoid)
func newDiabetesModel(inputDim int, optimizer, activation string) (*nn.Sequential, error) {
	opt, err := nn.OptimizerByName(optimizer)
	if err != nil {
		return nil, err
	}
	act, err := nn.ActivationByName(activation)
	if err != nil {
		return nil, err
	}
	return nn.NewSequential(inputDim, nn.NewBinaryCrossEntropy(), opt, uint64(seed),
		nn.NewDense(6, act),
		nn.NewDense(3, act),
		nn.NewDense(1, nn.Sigmoid),
	)
}

func (c *diabetesConfig) flags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.csvPath, "csv", getEnvWithDefault("LABS_DIABETES_CSV", "diabetes.csv"), "Path of the diabetes csv")
	cmd.PersistentFlags().IntVar(&c.epochs, "epochs", 500, "Training epochs")
	cmd.PersistentFlags().IntVar(&c.batchSize, "batch", 32, "Batch size")
	cmd.PersistentFlags().Float64Var(&c.testFraction, "test", 0.2, "Fraction of rows held out for testing")
	cmd.PersistentFlags().BoolVar(&c.standardize, "standardize", false, "Standardize features with the training statistics")
}

func DiabetesCommand() *cobra.Command {
	cfg := &diabetesConfig{}
	var optimizer, activation string
	cmd := &cobra.Command{
		Use:   "diabetes",
		Short: "Train a feed-forward classifier on the diabetes dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			params := cfg.params()
			params["optimizer"] = optimizer
			params["activation"] = activation
			runID, err := recordRun("diabetes", params)
			if err != nil {
				return err
			}
			logger.Printf("run %s: diabetes", runID)

			train, test, err := cfg.load()
			if err != nil {
				return err
			}
			_, features := train.Dims()
			model, err := newDiabetesModel(features, optimizer, activation)
			if err != nil {
				return err
			}
			model.Summary(os.Stdout)

			history, err := model.Fit(ctx, train.Features, train.Labels, nn.FitConfig{
				Epochs:    cfg.epochs,
				BatchSize: cfg.batchSize,
				ValX:      test.Features,
				ValY:      test.Labels,
				OnEpoch: func(epoch int, h *nn.History) {
					fmt.Printf("\rEpoch %d/%d - loss: %.4f - val_loss: %.4f", epoch+1, cfg.epochs, h.Loss[epoch], h.ValLoss[epoch])
				},
			})
			fmt.Println()
			if err != nil {
				return err
			}

			probs, err := model.Predict(test.Features)
			if err != nil {
				return err
			}
			pred := nn.Round(probs)
			fmt.Println("Accuracy: ", nn.Accuracy(test.Labels, pred))
			fmt.Printf("Confusion Matrix: \n%v\n", mat.Formatted(nn.ConfusionMatrix(test.Labels, pred, 2)))

			return saveCurves("diabetes_loss", "Loss Curve", "Epochs", "Loss",
				util.Series{Name: "Train Loss", Values: history.Loss},
				util.Series{Name: "Validation Loss", Values: history.ValLoss},
			)
		},
	}
	cfg.flags(cmd)
	cmd.Flags().StringVar(&optimizer, "optimizer", "adam", "Optimizer: adam, sgd or rmsprop")
	cmd.Flags().StringVar(&activation, "activation", "relu", "Hidden activation: relu, sigmoid, tanh or linear")
	cmd.AddCommand(diabetesCompareCommand(cfg))
	cmd.AddCommand(diabetesSplitCommand(cfg))
	return cmd
}

// diabetesCompareCommand trains every optimizer and activation pair
func diabetesCompareCommand(cfg *diabetesConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Compare the loss curves of optimizers and activations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := interruptContext()
			defer cancel()

			params := cfg.params()
			params["optimizers"] = nn.OptimizerNames
			params["activations"] = nn.ActivationNames
			runID, err := recordRun("diabetes_compare", params)
			if err != nil {
				return err
			}
			logger.Printf("run %s: diabetes compare", runID)

			train, test, err := cfg.load()
			if err != nil {
				return err
			}
			_, features := train.Dims()

			loss := make([]util.Series, 0)
			valLoss := make([]util.Series, 0)
			for _, optimizer := range nn.OptimizerNames {
				for _, activation := range nn.ActivationNames {
					name := optimizer + "-" + activation
					model, err := newDiabetesModel(features, optimizer, activation)
					if err != nil {
						return err
					}
					history, err := model.Fit(ctx, train.Features, train.Labels, nn.FitConfig{
						Epochs:    cfg.epochs,
						BatchSize: cfg.batchSize,
						ValX:      test.Features,
						ValY:      test.Labels,
					})
					if err != nil {
						return fmt.Errorf("%s: %w", name, err)
					}
					if history.Epochs() == 0 {
						continue
					}
					last := history.Epochs() - 1
					fmt.Printf("%-16s loss %.4f val_loss %.4f val_accuracy %.4f\n",
						name, history.Loss[last], history.ValLoss[last], history.ValAccuracy[last])
					loss = append(loss, util.Series{Name: name, Values: history.Loss})
					valLoss = append(valLoss, util.Series{Name: name, Values: history.ValLoss})
				}
			}
			if err := saveCurves("diabetes_compare_loss", "Train Loss", "Epochs", "Loss", loss...); err != nil {
				return err
			}
			return saveCurves("diabetes_compare_val_loss", "Validation Loss", "Epochs", "Loss", valLoss...)
		},
	}
}

// diabetesSplitCommand splits the rows in order, without shuffling
func diabetesSplitCommand(cfg *diabetesConfig) *cobra.Command {
	var fraction float64
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split the dataset in order and print both parts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataset.LoadCSV(cfg.csvPath, dataset.DiabetesLabel, dataset.DiabetesClasses)
			if err != nil {
				return err
			}
			left, right, err := dataset.Split(ds, fraction)
			if err != nil {
				return err
			}
			for _, part := range []*dataset.Dataset{left, right} {
				if part.Len() > 0 {
					fmt.Printf("%v\n", mat.Formatted(part.Features, mat.Excerpt(3)))
				}
			}
			fmt.Println(left.Len())
			fmt.Println(right.Len())
			if saveFile == "" {
				return nil
			}
			return util.WriteJSON(path.Join(saveFile, "diabetes_split.json"), map[string]int{
				"train": left.Len(),
				"test":  right.Len(),
			})
		},
	}
	cmd.Flags().Float64Var(&fraction, "fraction", 0.7, "Fraction of rows in the first part")
	return cmd
}
