package commands

import (
	"errors"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/stub-enhancer/predictor/internal/model"
	"github.com/stub-enhancer/predictor/internal/modelstore"
	"github.com/stub-enhancer/predictor/internal/predict"
)

// #region model-loading

func (a *app) openStore() (*modelstore.Store, error) {
	return modelstore.NewStore(a.cfg.DBPath)
}

// openExistingStore opens the store only if its file is already there, so read-only
// commands never create a database as a side effect.
func (a *app) openExistingStore() (*modelstore.Store, error) {
	if _, err := os.Stat(a.cfg.DBPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", a.cfg.DBPath, err)
	}
	return a.openStore()
}

// loadModel resolves the model to serve: an explicit artifact file, then the store's
// active version, then the embedded default.
func (a *app) loadModel(store *modelstore.Store) (*model.Model, error) {
	if a.cfg.ModelPath != "" {
		art, err := model.LoadFile(a.cfg.ModelPath)
		if err != nil {
			return nil, err
		}
		klog.V(1).Infof("model from file %s", a.cfg.ModelPath)
		return art.Build()
	}

	if store != nil {
		rec, err := store.GetActive()
		switch {
		case err == nil:
			klog.V(1).Infof("model %s from store version %s", rec.ModelVersion, rec.VersionID)
			return rec.Model()
		case !errors.Is(err, modelstore.ErrNoActiveModel):
			return nil, err
		}
	}

	klog.V(1).Info("model: embedded default")
	return model.Default()
}

func (a *app) loadPredictor(store *modelstore.Store) (*predict.Predictor, error) {
	m, err := a.loadModel(store)
	if err != nil {
		return nil, err
	}
	return predict.New(m, predict.WithCacheSize(a.cfg.CacheSize))
}

// #endregion model-loading
