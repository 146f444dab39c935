package app

import (
	"context"

	"github.com/erazemk/pridelek/internal/db"
	"github.com/erazemk/pridelek/internal/events"
	"github.com/erazemk/pridelek/internal/model"
	"github.com/erazemk/pridelek/internal/store"
)

func (s *Service) CreateFarmer(ctx context.Context, f model.Farmer) (*model.Farmer, error) {
	out, err := observe(s, "farmer.create", func() (*model.Farmer, error) {
		return store.CreateFarmer(ctx, s.db, f)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("farmer created", "id", out.ID, "name", out.Name)
	s.publish(events.RecordChanged, "farmer", out.ID, out)
	return out, nil
}

func (s *Service) UpdateFarmer(ctx context.Context, id int64, f model.Farmer) (*model.Farmer, error) {
	out, err := observe(s, "farmer.update", func() (*model.Farmer, error) {
		return store.UpdateFarmer(ctx, s.db, id, f)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("farmer updated", "id", out.ID)
	s.publish(events.RecordChanged, "farmer", out.ID, out)
	return out, nil
}

func (s *Service) DeleteFarmer(ctx context.Context, id int64) error {
	return s.deleteRecord(ctx, "farmer", id, store.DeleteFarmer)
}

func (s *Service) CreateCustomer(ctx context.Context, c model.Customer) (*model.Customer, error) {
	out, err := observe(s, "customer.create", func() (*model.Customer, error) {
		return store.CreateCustomer(ctx, s.db, c)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("customer created", "id", out.ID, "name", out.Name)
	s.publish(events.RecordChanged, "customer", out.ID, out)
	return out, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, c model.Customer) (*model.Customer, error) {
	out, err := observe(s, "customer.update", func() (*model.Customer, error) {
		return store.UpdateCustomer(ctx, s.db, id, c)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("customer updated", "id", out.ID)
	s.publish(events.RecordChanged, "customer", out.ID, out)
	return out, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.deleteRecord(ctx, "customer", id, store.DeleteCustomer)
}

func (s *Service) CreateStorage(ctx context.Context, name, location string, maxCapacity float64) (*model.StorageLocation, error) {
	out, err := observe(s, "storage.create", func() (*model.StorageLocation, error) {
		return store.CreateStorage(ctx, s.db, name, location, maxCapacity)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("storage created", "id", out.ID, "name", out.Name, "maxKg", out.MaxCapacity)
	s.publish(events.RecordChanged, "storage", out.ID, out)
	return out, nil
}

func (s *Service) UpdateStorage(ctx context.Context, id int64, name, location string, maxCapacity float64) (*model.StorageLocation, error) {
	out, err := observe(s, "storage.update", func() (*model.StorageLocation, error) {
		return store.UpdateStorage(ctx, s.db, id, name, location, maxCapacity)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("storage updated", "id", out.ID, "maxKg", out.MaxCapacity)
	s.publish(events.RecordChanged, "storage", out.ID, out)
	return out, nil
}

func (s *Service) DeleteStorage(ctx context.Context, id int64) error {
	return s.deleteRecord(ctx, "storage", id, store.DeleteStorage)
}

func (s *Service) SetTaxRate(ctx context.Context, rate float64) (model.Settings, error) {
	out, err := observe(s, "settings.tax", func() (model.Settings, error) {
		return store.SetTaxRate(ctx, s.db, rate)
	})
	if err != nil {
		return model.Settings{}, err
	}
	s.log.Info("tax rate set", "rate", out.TaxRate)
	return out, nil
}

func (s *Service) deleteRecord(ctx context.Context, entity string, id int64, del func(context.Context, *db.DB, int64) error) error {
	_, err := observe(s, entity+".delete", func() (none, error) {
		return none{}, del(ctx, s.db, id)
	})
	if err != nil {
		return err
	}
	s.log.Info(entity+" deleted", "id", id)
	s.publish(events.RecordDeleted, entity, id, nil)
	return nil
}
