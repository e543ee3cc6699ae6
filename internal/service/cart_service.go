package service

import (
	"context"
	"fmt"
	"time"

	"fusefi/internal/model"
	"fusefi/internal/pricing"
	"fusefi/internal/repository"

	"github.com/rs/zerolog"
)

// cartService implements CartService. Persistence is optimistic and
// local-first: the in-memory mutation is the result, and a failed
// mirror write is logged rather than rolled back or surfaced.
type cartService struct {
	guestRepo   repository.CartRepository
	userRepo    repository.CartRepository
	catalogRepo repository.CatalogRepository
	calc        *pricing.Calculator
	logger      zerolog.Logger
}

// NewCartService creates a new cart service. The two cart repositories
// are the guest (anonymous) and account (authenticated) stores; each
// request uses exactly one of them, chosen by the session.
func NewCartService(
	guestRepo repository.CartRepository,
	userRepo repository.CartRepository,
	catalogRepo repository.CatalogRepository,
	calc *pricing.Calculator,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		guestRepo:   guestRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		calc:        calc,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// repoFor selects the persistence mode for the session. Switching
// identity never merges the two stores implicitly; see Merge.
func (s *cartService) repoFor(sess model.Session) repository.CartRepository {
	if sess.Authenticated() {
		return s.userRepo
	}
	return s.guestRepo
}

// Get loads the session's cart.
func (s *cartService) Get(ctx context.Context, sess model.Session) (*model.CartResponse, error) {
	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}
	return s.respond(cart), nil
}

// AddItem puts a kit in the cart, incrementing the quantity when the
// kit is already present.
func (s *cartService) AddItem(ctx context.Context, sess model.Session, productID string, quantity int) (*model.CartResponse, error) {
	if quantity <= 0 {
		s.logger.Warn().
			Str("product_id", productID).
			Int("quantity", quantity).
			Msg("rejected non-positive quantity")
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.catalogRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, model.CartItem{Product: *product, Quantity: quantity})
	}

	s.persist(ctx, sess, cart)
	return s.respond(cart), nil
}

// UpdateQuantity sets an absolute quantity; zero or below removes the entry.
func (s *cartService) UpdateQuantity(ctx context.Context, sess model.Session, productID string, quantity int) (*model.CartResponse, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sess, productID)
	}

	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items[idx].Quantity = quantity
		s.persist(ctx, sess, cart)
	}

	return s.respond(cart), nil
}

// RemoveItem deletes the entry; no-op when absent.
func (s *cartService) RemoveItem(ctx context.Context, sess model.Session, productID string) (*model.CartResponse, error) {
	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
		s.persist(ctx, sess, cart)
	}

	return s.respond(cart), nil
}

// Clear resets the cart to empty: no items, no window, no location, no
// shipping selection.
func (s *cartService) Clear(ctx context.Context, sess model.Session) (*model.CartResponse, error) {
	if err := s.repoFor(sess).Clear(ctx, sess); err != nil {
		s.logger.Error().
			Err(err).
			Str("session", sess.Key()).
			Msg("failed to clear persisted cart, returning empty cart anyway")
	}

	return s.respond(model.NewCart()), nil
}

// SetEventDates replaces the rental window.
func (s *cartService) SetEventDates(ctx context.Context, sess model.Session, start, end *time.Time) (*model.CartResponse, error) {
	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	cart.EventWindow = model.EventWindow{Start: start, End: end}
	s.persist(ctx, sess, cart)

	return s.respond(cart), nil
}

// SetEventLocation replaces the event location.
func (s *cartService) SetEventLocation(ctx context.Context, sess model.Session, location string) (*model.CartResponse, error) {
	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	cart.EventLocation = location
	s.persist(ctx, sess, cart)

	return s.respond(cart), nil
}

// SetShippingOption selects a shipping option; an empty id clears the
// selection.
func (s *cartService) SetShippingOption(ctx context.Context, sess model.Session, optionID string) (*model.CartResponse, error) {
	cart, err := s.load(ctx, sess, s.repoFor(sess))
	if err != nil {
		return nil, err
	}

	if optionID == "" {
		cart.ShippingOption = nil
	} else {
		option, err := s.catalogRepo.GetShippingOptionByID(ctx, optionID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up shipping option: %w", err)
		}
		if option == nil {
			return nil, model.ErrShippingOptionNotFound
		}
		cart.ShippingOption = option
	}

	s.persist(ctx, sess, cart)
	return s.respond(cart), nil
}

// Merge migrates a guest cart into the signed-in account cart: item
// quantities for the same kit are summed, and the account cart's event
// fields win whenever they are set. The guest record is deleted
// afterwards. This is the only path between the two stores.
func (s *cartService) Merge(ctx context.Context, sess model.Session, guestSessionID string) (*model.CartResponse, error) {
	if !sess.Authenticated() {
		return nil, model.NewDomainError(model.ErrCodeForbidden, "Sign in to merge a guest cart")
	}
	if guestSessionID == "" {
		return nil, model.NewDomainError(model.ErrCodeMissingField, "guestSessionId is required")
	}

	guestSess := model.Session{GuestID: guestSessionID}
	guestCart, err := s.load(ctx, guestSess, s.guestRepo)
	if err != nil {
		return nil, err
	}

	cart, err := s.load(ctx, sess, s.userRepo)
	if err != nil {
		return nil, err
	}

	for _, item := range guestCart.Items {
		if idx := cart.FindItem(item.Product.ID); idx >= 0 {
			cart.Items[idx].Quantity += item.Quantity
		} else {
			cart.Items = append(cart.Items, item)
		}
	}
	if cart.EventWindow.Start == nil && cart.EventWindow.End == nil {
		cart.EventWindow = guestCart.EventWindow
	}
	if cart.EventLocation == "" {
		cart.EventLocation = guestCart.EventLocation
	}
	if cart.ShippingOption == nil {
		cart.ShippingOption = guestCart.ShippingOption
	}

	// Migration is explicit, so unlike ordinary mutations a failed save
	// aborts it and leaves the guest record in place.
	if err := s.userRepo.Save(ctx, sess, toRecord(cart)); err != nil {
		s.logger.Error().Err(err).Str("session", sess.Key()).Msg("failed to save merged cart")
		return nil, fmt.Errorf("failed to save merged cart: %w", err)
	}

	if err := s.guestRepo.Clear(ctx, guestSess); err != nil {
		s.logger.Warn().
			Err(err).
			Str("guest_session", guestSessionID).
			Msg("failed to delete guest cart after merge")
	}

	s.logger.Info().
		Str("session", sess.Key()).
		Int("merged_items", len(guestCart.Items)).
		Msg("guest cart merged")

	return s.respond(cart), nil
}

// load reads and hydrates a cart from the given store. Kits that have
// left the catalogue are dropped with a warning. A read failure is
// tolerated as an empty cart so browsing never breaks.
func (s *cartService) load(ctx context.Context, sess model.Session, repo repository.CartRepository) (*model.Cart, error) {
	record, err := repo.Load(ctx, sess)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session", sess.Key()).
			Msg("failed to load cart, starting empty")
		return model.NewCart(), nil
	}
	if record == nil {
		return model.NewCart(), nil
	}

	cart := model.NewCart()
	cart.EventWindow = model.EventWindow{Start: record.EventStart, End: record.EventEnd}
	cart.EventLocation = record.EventLocation

	if len(record.Items) > 0 {
		ids := make([]string, len(record.Items))
		for i, item := range record.Items {
			ids[i] = item.ProductID
		}

		products, err := s.catalogRepo.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to hydrate cart products: %w", err)
		}

		byID := make(map[string]model.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		for _, item := range record.Items {
			product, ok := byID[item.ProductID]
			if !ok {
				s.logger.Warn().
					Str("product_id", item.ProductID).
					Msg("dropping cart item for unknown product")
				continue
			}
			cart.Items = append(cart.Items, model.CartItem{Product: product, Quantity: item.Quantity})
		}
	}

	if record.ShippingOptionID != "" {
		option, err := s.catalogRepo.GetShippingOptionByID(ctx, record.ShippingOptionID)
		if err != nil {
			return nil, fmt.Errorf("failed to hydrate shipping option: %w", err)
		}
		cart.ShippingOption = option
	}

	return cart, nil
}

// persist mirrors the new state and swallows write failures: the caller
// already holds the mutated cart and the UI reflects it.
func (s *cartService) persist(ctx context.Context, sess model.Session, cart *model.Cart) {
	if err := s.repoFor(sess).Save(ctx, sess, toRecord(cart)); err != nil {
		s.logger.Error().
			Err(err).
			Str("session", sess.Key()).
			Msg("failed to persist cart mutation")
	}
}

func (s *cartService) respond(cart *model.Cart) *model.CartResponse {
	return &model.CartResponse{Cart: cart, Quote: s.calc.Quote(cart)}
}

// toRecord strips a cart down to its persisted form.
func toRecord(cart *model.Cart) *repository.CartRecord {
	record := &repository.CartRecord{
		EventStart:    cart.EventWindow.Start,
		EventEnd:      cart.EventWindow.End,
		EventLocation: cart.EventLocation,
	}
	for _, item := range cart.Items {
		record.Items = append(record.Items, repository.CartRecordItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
		})
	}
	if cart.ShippingOption != nil {
		record.ShippingOptionID = cart.ShippingOption.ID
	}
	return record
}
