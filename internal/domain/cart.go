package domain

// CartItem позиция корзины. Идентичность внутри корзины - ProductID.
type CartItem struct {
	ProductID     int64
	Name          string
	ImageURL      string
	Price         float64
	DiscountPrice *float64 // nil = скидки нет; если задана, не превышает Price
	Quantity      int
}

// UnitPrice возвращает действующую цену за единицу
// (скидочную, если она задана)
func (i *CartItem) UnitPrice() float64 {
	if i.DiscountPrice != nil {
		return *i.DiscountPrice
	}
	return i.Price
}

// HasDiscount возвращает true, если на позицию действует скидка
func (i *CartItem) HasDiscount() bool {
	return i.DiscountPrice != nil && *i.DiscountPrice < i.Price
}

// Cart локальное зеркало серверной корзины
type Cart struct {
	Items []CartItem
}

// TotalCount возвращает суммарное количество единиц по всем позициям
func (c *Cart) TotalCount() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice возвращает итог к оплате с учетом скидок
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.UnitPrice() * float64(item.Quantity)
	}
	return total
}

// OriginalTotal возвращает итог по ценам без скидок
func (c *Cart) OriginalTotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// TotalSavings возвращает суммарную экономию от скидок
func (c *Cart) TotalSavings() float64 {
	return c.OriginalTotal() - c.TotalPrice()
}

// FindItem возвращает позицию по ProductID или nil
func (c *Cart) FindItem(productID int64) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// Merge добавляет позицию в корзину: если позиция с тем же ProductID
// уже есть, количества суммируются, иначе позиция добавляется в конец
func (c *Cart) Merge(item CartItem) {
	if existing := c.FindItem(item.ProductID); existing != nil {
		existing.Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// SetQuantity устанавливает количество у существующей позиции.
// Возвращает false, если позиции нет.
func (c *Cart) SetQuantity(productID int64, quantity int) bool {
	existing := c.FindItem(productID)
	if existing == nil {
		return false
	}
	existing.Quantity = quantity
	return true
}

// RemoveItem удаляет позицию из корзины.
// Возвращает false, если позиции не было.
func (c *Cart) RemoveItem(productID int64) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear очищает локальную корзину
func (c *Cart) Clear() {
	c.Items = nil
}
